package server

import (
	"fmt"
	"time"

	"github.com/karushp/ems-dashboard/pkg/emsdash/dataset"
	"github.com/karushp/ems-dashboard/pkg/emsdash/filter"
	"github.com/karushp/ems-dashboard/pkg/emsdash/summary"
)

// Series is one named value sequence of a chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartSpec describes one chart for the UI to render. The server only
// selects data and layout; drawing is entirely client-side.
type ChartSpec struct {
	Kind   string   `json:"kind"` // pie, bar, line, area
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// MapPoint marks a region on the landing page map.
type MapPoint struct {
	Region string  `json:"region"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// OverviewCard is one landing-page card for a (region, industry) pair.
// A load failure fills Error and leaves the numbers zero; other cards
// are unaffected.
type OverviewCard struct {
	Region            string  `json:"region"`
	Industry          string  `json:"industry"`
	Records           int     `json:"records"`
	AvgEnergy         float64 `json:"avgEnergy"`
	PeakHour          int     `json:"peakHour"`
	WeekendAvg        float64 `json:"weekendAvg"`
	WeekdayAvg        float64 `json:"weekdayAvg"`
	DominantComponent string  `json:"dominantComponent"`
	DateRange         string  `json:"dateRange"`
	Error             string  `json:"error,omitempty"`
}

// Overview is the landing page render model.
type Overview struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Cards       []OverviewCard `json:"cards"`
	Map         []MapPoint     `json:"map"`
}

// Dashboard is the per-region dashboard render model.
type Dashboard struct {
	Region      string                 `json:"region"`
	Industry    string                 `json:"industry"`
	Title       string                 `json:"title"`
	Combined    bool                   `json:"combined"`
	Empty       bool                   `json:"empty"`
	Granularity string                 `json:"granularity"`
	Metrics     summary.Metrics        `json:"metrics"`
	TimeSeries  []filter.Row           `json:"timeSeries"`
	Tabs        map[string][]ChartSpec `json:"tabs"`
	RawHead     []dataset.EnergyRecord `json:"rawHead"`
}

var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// rawHeadLimit caps the raw data table, matching the head shown on the
// dashboard page.
const rawHeadLimit = 100

func buildDashboard(region dataset.Region, industry dataset.Industry, view *filter.View, m summary.Metrics) Dashboard {
	combined := industry == dataset.IndustryAll
	title := fmt.Sprintf("%s %s Energy Dashboard", titleCase(string(region)), titleCase(string(industry)))
	if combined {
		title = fmt.Sprintf("%s All Industries Energy Dashboard", titleCase(string(region)))
	}

	head := view.Records
	if len(head) > rawHeadLimit {
		head = head[:rawHeadLimit]
	}

	return Dashboard{
		Region:      string(region),
		Industry:    string(industry),
		Title:       title,
		Combined:    combined,
		Empty:       view.Empty(),
		Granularity: string(view.Spec.Granularity),
		Metrics:     m,
		TimeSeries:  view.Rows,
		Tabs: map[string][]ChartSpec{
			"energyBreakdown":  energyBreakdownCharts(m),
			"timeSeries":       timeSeriesCharts(view, m),
			"buildingAnalysis": buildingAnalysisCharts(m),
			"loadSignatures":   loadSignatureCharts(m),
		},
		RawHead: head,
	}
}

func energyBreakdownCharts(m summary.Metrics) []ChartSpec {
	values := make([]float64, len(dataset.ComponentNames))
	for i, name := range dataset.ComponentNames {
		values[i] = m.ComponentTotals[name]
	}

	monthly := make([]float64, 12)
	copy(monthly, m.MonthlyTotals[:])
	weekday := make([]float64, 7)
	copy(weekday, m.WeekdayPattern[:])

	return []ChartSpec{
		{
			Kind:   "pie",
			Title:  "Energy Consumption by Component",
			Labels: dataset.ComponentNames,
			Series: []Series{{Name: "Energy", Values: values}},
		},
		{
			Kind:   "bar",
			Title:  "Energy Consumption by Component (Bar Chart)",
			Labels: dataset.ComponentNames,
			Series: []Series{{Name: "Energy", Values: values}},
		},
		{
			Kind:   "bar",
			Title:  "Peak vs Off-Peak Energy Comparison",
			Labels: []string{"Peak Hours", "Off-Peak Hours"},
			Series: []Series{{Name: "Average Energy", Values: []float64{m.PeakAvg, m.OffPeakAvg}}},
		},
		{
			Kind:   "bar",
			Title:  "Daily Energy Patterns (Average by Day of Week)",
			Labels: weekdayNames,
			Series: []Series{{Name: "Average Energy", Values: weekday}},
		},
		{
			Kind:   "bar",
			Title:  "Monthly Energy Trends",
			Labels: monthNames,
			Series: []Series{{Name: "Total Energy", Values: monthly}},
		},
		{
			Kind:   "bar",
			Title:  "Weekday vs Weekend Energy Comparison",
			Labels: []string{"Weekday", "Weekend"},
			Series: []Series{{Name: "Average Energy", Values: []float64{m.WeekdayAvg, m.WeekendAvg}}},
		},
	}
}

func timeSeriesCharts(view *filter.View, m summary.Metrics) []ChartSpec {
	labels := make([]string, len(view.Rows))
	totals := make([]float64, len(view.Rows))
	temps := make([]float64, len(view.Rows))
	hasTemp := false
	for i, row := range view.Rows {
		labels[i] = row.Bucket.Format("2006-01-02")
		totals[i] = row.Total
		temps[i] = row.Temperature
		if row.HasTemperature {
			hasTemp = true
		}
	}

	series := []Series{{Name: "Energy Consumption", Values: totals}}
	if hasTemp {
		series = append(series, Series{Name: "Temperature", Values: temps})
	}

	hourLabels := make([]string, 24)
	hourly := make([]float64, 24)
	for h := 0; h < 24; h++ {
		hourLabels[h] = fmt.Sprintf("%d:00", h)
		hourly[h] = m.HourlyPattern[h]
	}

	return []ChartSpec{
		{
			Kind:   "bar",
			Title:  fmt.Sprintf("Energy Consumption vs Temperature Over Time - %s", titleCase(string(view.Spec.Granularity))),
			Labels: labels,
			Series: series,
		},
		{
			Kind:   "bar",
			Title:  "Average Hourly Consumption Pattern",
			Labels: hourLabels,
			Series: []Series{{Name: "Average Consumption", Values: hourly}},
		},
	}
}

func buildingAnalysisCharts(m summary.Metrics) []ChartSpec {
	labels := make([]string, 0, len(m.BuildingAnalysis))
	floorAreas := make([]float64, 0, len(m.BuildingAnalysis))
	contractPowers := make([]float64, 0, len(m.BuildingAnalysis))
	for _, b := range m.BuildingAnalysis {
		labels = append(labels, b.BuildingType)
		floorAreas = append(floorAreas, b.MeanFloorArea)
		contractPowers = append(contractPowers, b.MeanContractPower)
	}

	return []ChartSpec{
		{
			Kind:   "pie",
			Title:  "Floor Area Distribution",
			Labels: labels,
			Series: []Series{{Name: "Mean Floor Area", Values: floorAreas}},
		},
		{
			Kind:   "bar",
			Title:  "Contract Power Distribution",
			Labels: labels,
			Series: []Series{{Name: "Mean Contract Power", Values: contractPowers}},
		},
	}
}

func loadSignatureCharts(m summary.Metrics) []ChartSpec {
	charts := make([]ChartSpec, 0, 2)
	if labels, values := sortedCounts(m.LoadSignatureCounts); len(labels) > 0 {
		charts = append(charts, ChartSpec{
			Kind:   "bar",
			Title:  "Load Signature Class Distribution",
			Labels: labels,
			Series: []Series{{Name: "Count", Values: values}},
		})
	}
	if labels, values := sortedCounts(m.ClusterCounts); len(labels) > 0 {
		charts = append(charts, ChartSpec{
			Kind:   "pie",
			Title:  "Energy Consumption Clusters",
			Labels: labels,
			Series: []Series{{Name: "Count", Values: values}},
		})
	}
	return charts
}
