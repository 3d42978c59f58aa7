// Package summary derives scalar metrics and small aggregate tables from
// a filtered view. All functions are pure and total: an empty view
// produces zero-valued metrics, never an error.
package summary

import (
	"sort"
	"time"

	"github.com/karushp/ems-dashboard/pkg/emsdash/dataset"
	"github.com/karushp/ems-dashboard/pkg/emsdash/filter"
	"github.com/karushp/ems-dashboard/pkg/emsdash/peakwindow"
)

// BuildingStats aggregates building characteristics for one type.
type BuildingStats struct {
	BuildingType      string  `json:"buildingType"`
	Records           int     `json:"records"`
	MeanFloorArea     float64 `json:"meanFloorArea"`
	MeanContractPower float64 `json:"meanContractPower"`
}

// Metrics are the summary scalars and aggregate tables for one view.
type Metrics struct {
	Empty       bool `json:"empty"`
	RecordCount int  `json:"recordCount"`

	TotalConsumption float64 `json:"totalConsumption"`
	AverageDaily     float64 `json:"averageDaily"`
	AverageRecord    float64 `json:"averageRecord"`

	PeakValue float64   `json:"peakValue"`
	PeakTime  time.Time `json:"peakTime"`

	PeakOffPeakRatio float64 `json:"peakOffPeakRatio"`
	PeakAvg          float64 `json:"peakAvg"`
	OffPeakAvg       float64 `json:"offPeakAvg"`

	PeakHour   int     `json:"peakHour"`
	WeekendAvg float64 `json:"weekendAvg"`
	WeekdayAvg float64 `json:"weekdayAvg"`

	DominantComponent string             `json:"dominantComponent"`
	ComponentTotals   map[string]float64 `json:"componentTotals"`

	HourlyPattern  [24]float64 `json:"hourlyPattern"`  // mean Total per hour of day
	WeekdayPattern [7]float64  `json:"weekdayPattern"` // mean Total per weekday, Monday first
	MonthlyTotals  [12]float64 `json:"monthlyTotals"`  // summed Total per calendar month

	RangeStart time.Time `json:"rangeStart"`
	RangeEnd   time.Time `json:"rangeEnd"`

	BuildingAnalysis    []BuildingStats `json:"buildingAnalysis"`
	LoadSignatureCounts map[string]int  `json:"loadSignatureCounts"`
	ClusterCounts       map[string]int  `json:"clusterCounts"`
}

// Summarize computes Metrics for a view. The peak window decides which
// records count toward the peak side of the peak/off-peak ratio; pass
// nil to use the default day/night boundary.
func Summarize(view *filter.View, window *peakwindow.Window) Metrics {
	m := Metrics{
		ComponentTotals:     make(map[string]float64),
		LoadSignatureCounts: make(map[string]int),
		ClusterCounts:       make(map[string]int),
	}
	if view == nil || view.Empty() {
		m.Empty = true
		return m
	}
	if window == nil {
		window = peakwindow.Default()
	}

	return summarize(view, window, m)
}

func summarize(view *filter.View, window *peakwindow.Window, m Metrics) Metrics {
	var (
		hourSums     [24]float64
		hourCounts   [24]int
		daySums      [7]float64
		dayCounts    [7]int
		peakSum      float64
		peakCount    int
		offPeakSum   float64
		offPeakCount int
		weekendSum   float64
		weekendCount int
		weekdaySum   float64
		weekdayCount int
	)
	days := make(map[time.Time]bool)
	byType := make(map[string]*BuildingStats)
	typeFloorSums := make(map[string]float64)
	typePowerSums := make(map[string]float64)

	for _, r := range view.Records {
		m.RecordCount++
		m.TotalConsumption += r.Total
		for name, v := range r.Components() {
			m.ComponentTotals[name] += v
		}

		day := filter.BucketStart(dataset.Daily, r.Date)
		days[day] = true
		if m.RangeStart.IsZero() || r.Date.Before(m.RangeStart) {
			m.RangeStart = r.Date
		}
		if r.Date.After(m.RangeEnd) {
			m.RangeEnd = r.Date
		}

		if r.Hour >= 0 && int(r.Hour) < 24 {
			hourSums[r.Hour] += r.Total
			hourCounts[r.Hour]++
		}
		if r.Weekday >= 0 && int(r.Weekday) < 7 {
			daySums[r.Weekday] += r.Total
			dayCounts[r.Weekday]++
		}
		if r.Month >= 1 && int(r.Month) <= 12 {
			m.MonthlyTotals[r.Month-1] += r.Total
		}

		// Dataset weekdays are Monday-based; the window wants time.Weekday.
		if window.ContainsHour(time.Weekday((r.Weekday+1)%7), int(r.Hour)) {
			peakSum += r.Total
			peakCount++
		} else {
			offPeakSum += r.Total
			offPeakCount++
		}

		if r.IsWeekend {
			weekendSum += r.Total
			weekendCount++
		} else {
			weekdaySum += r.Total
			weekdayCount++
		}

		stats, ok := byType[r.BuildingType]
		if !ok {
			stats = &BuildingStats{BuildingType: r.BuildingType}
			byType[r.BuildingType] = stats
		}
		stats.Records++
		typeFloorSums[r.BuildingType] += r.FloorArea
		typePowerSums[r.BuildingType] += r.ContractPower

		if r.LoadSignatureClass != "" {
			m.LoadSignatureCounts[r.LoadSignatureClass]++
		}
		if r.ClusterClass != "" {
			m.ClusterCounts[r.ClusterClass]++
		}
	}

	m.AverageRecord = m.TotalConsumption / float64(m.RecordCount)
	if n := len(days); n > 0 {
		m.AverageDaily = m.TotalConsumption / float64(n)
	}

	for _, row := range view.Rows {
		if row.Total > m.PeakValue {
			m.PeakValue = row.Total
			m.PeakTime = row.Bucket
		}
	}

	if peakCount > 0 {
		m.PeakAvg = peakSum / float64(peakCount)
	}
	if offPeakCount > 0 {
		m.OffPeakAvg = offPeakSum / float64(offPeakCount)
	}
	if m.OffPeakAvg > 0 {
		m.PeakOffPeakRatio = m.PeakAvg / m.OffPeakAvg
	}

	best := -1.0
	for h := 0; h < 24; h++ {
		if hourCounts[h] == 0 {
			continue
		}
		m.HourlyPattern[h] = hourSums[h] / float64(hourCounts[h])
		if m.HourlyPattern[h] > best {
			best = m.HourlyPattern[h]
			m.PeakHour = h
		}
	}
	for d := 0; d < 7; d++ {
		if dayCounts[d] > 0 {
			m.WeekdayPattern[d] = daySums[d] / float64(dayCounts[d])
		}
	}

	if weekendCount > 0 {
		m.WeekendAvg = weekendSum / float64(weekendCount)
	}
	if weekdayCount > 0 {
		m.WeekdayAvg = weekdaySum / float64(weekdayCount)
	}

	m.DominantComponent = dominantComponent(m.ComponentTotals)

	for t, stats := range byType {
		if stats.Records > 0 {
			stats.MeanFloorArea = typeFloorSums[t] / float64(stats.Records)
			stats.MeanContractPower = typePowerSums[t] / float64(stats.Records)
		}
		m.BuildingAnalysis = append(m.BuildingAnalysis, *stats)
	}
	sort.Slice(m.BuildingAnalysis, func(i, j int) bool {
		return m.BuildingAnalysis[i].BuildingType < m.BuildingAnalysis[j].BuildingType
	})

	return m
}

// dominantComponent picks the component with the largest total, using
// the canonical component order to break ties deterministically.
func dominantComponent(totals map[string]float64) string {
	dominant := ""
	best := -1.0
	for _, name := range dataset.ComponentNames {
		if totals[name] > best {
			best = totals[name]
			dominant = name
		}
	}
	return dominant
}
