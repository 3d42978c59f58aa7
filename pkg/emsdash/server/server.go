// Package server maps stored datasets, filtered views and summary
// metrics onto the JSON surface consumed by the dashboard UI. It holds
// no business logic beyond layout selection by industry.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/karushp/ems-dashboard/pkg/emsdash/clock"
	"github.com/karushp/ems-dashboard/pkg/emsdash/config"
	"github.com/karushp/ems-dashboard/pkg/emsdash/dataset"
	"github.com/karushp/ems-dashboard/pkg/emsdash/filter"
	"github.com/karushp/ems-dashboard/pkg/emsdash/metrics"
	"github.com/karushp/ems-dashboard/pkg/emsdash/peakwindow"
	"github.com/karushp/ems-dashboard/pkg/emsdash/store"
	"github.com/karushp/ems-dashboard/pkg/emsdash/summary"
)

// regionPoints are the static landing-page map markers.
var regionPoints = []MapPoint{
	{Region: "Kansai", Lat: 34.6937, Lon: 135.5023},
	{Region: "Kanto", Lat: 35.6762, Lon: 139.6503},
}

// Server serves the dashboard API.
type Server struct {
	cfg    *config.Config
	store  *store.Store
	window *peakwindow.Window
	clk    clock.Clock
}

// New creates a server over an existing store.
func New(cfg *config.Config, st *store.Store, clk clock.Clock) *Server {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Server{
		cfg:    cfg,
		store:  st,
		window: cfg.PeakWindow(),
		clk:    clk,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/overview", s.instrument("/api/overview", s.handleOverview))
	mux.HandleFunc("GET /api/dashboard", s.instrument("/api/dashboard", s.handleDashboard))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.HandleFunc("GET /", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	klog.InfoS("Dashboard server starting", "addr", addr, "dataDir", s.cfg.Data.Dir)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>EMS Energy Dashboard</title></head>
<body style="margin:0;color:#333;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>EMS Energy Dashboard</h1>
<p>API is up. See <code>/api/overview</code> and <code>/api/dashboard</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOverview renders the landing page model. Each of the six
// region/industry cards loads independently; one failing dataset fills
// that card's error field only.
func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	overview := Overview{
		GeneratedAt: s.clk.Now(),
		Map:         regionPoints,
	}

	for _, region := range dataset.Regions() {
		for _, industry := range dataset.Industries() {
			overview.Cards = append(overview.Cards, s.overviewCard(region, industry))
		}
	}

	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) overviewCard(region dataset.Region, industry dataset.Industry) OverviewCard {
	card := OverviewCard{
		Region:   titleCase(string(region)),
		Industry: titleCase(string(industry)),
	}

	ds, err := s.store.Load(region, industry)
	if err != nil {
		klog.ErrorS(err, "Overview card load failed", "region", region, "industry", industry)
		card.Error = err.Error()
		card.DateRange = "N/A"
		card.DominantComponent = "N/A"
		return card
	}

	view, err := filter.Apply(ds, filter.Spec{
		BuildingType: dataset.AllBuildings,
		Granularity:  dataset.Daily,
		Industry:     industry,
	})
	if err != nil {
		card.Error = err.Error()
		return card
	}

	m := summary.Summarize(view, s.window)
	card.Records = m.RecordCount
	card.AvgEnergy = m.AverageRecord
	card.PeakHour = m.PeakHour
	card.WeekendAvg = m.WeekendAvg
	card.WeekdayAvg = m.WeekdayAvg
	card.DominantComponent = m.DominantComponent
	card.DateRange = "N/A"
	if !m.Empty {
		card.DateRange = fmt.Sprintf("%s to %s",
			m.RangeStart.Format("2006-01-02"), m.RangeEnd.Format("2006-01-02"))
	}
	return card
}

// handleDashboard renders the full dashboard model for one
// region/industry selection.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	region, err := dataset.ParseRegion(q.Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	industry, err := dataset.ParseIndustry(defaultStr(q.Get("industry"), string(dataset.IndustryAll)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	building, err := dataset.ParseBuildingType(defaultStr(q.Get("building"), string(dataset.AllBuildings)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	granularity, err := dataset.ParseGranularity(defaultStr(q.Get("granularity"), string(dataset.Daily)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	start, err := parseDate(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ds, err := s.store.Load(region, industry)
	if err != nil {
		writeError(w, statusForLoadError(err), err)
		return
	}

	view, err := filter.Apply(ds, filter.Spec{
		Start:        start,
		End:          end,
		BuildingType: building,
		Granularity:  granularity,
		Industry:     industry,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Temperature overlay is best effort; the dashboard renders without
	// it when the series is missing.
	if temps, err := s.store.LoadTemperature(region); err == nil {
		filter.JoinTemperature(view, temps)
	} else {
		klog.V(2).InfoS("No temperature overlay", "region", region, "err", err)
	}

	m := summary.Summarize(view, s.window)
	writeJSON(w, http.StatusOK, buildDashboard(region, industry, view, m))
}

func statusForLoadError(err error) int {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrUnknownRegion),
		errors.Is(err, dataset.ErrUnknownIndustry):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// instrument wraps a handler with request duration metrics.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := s.clk.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		metrics.RequestDuration.
			WithLabelValues(route, strconv.Itoa(rec.code)).
			Observe(s.clk.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

func sortedCounts(counts map[string]int) ([]string, []float64) {
	labels := make([]string, 0, len(counts))
	for k := range counts {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	values := make([]float64, len(labels))
	for i, k := range labels {
		values[i] = float64(counts[k])
	}
	return labels, values
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.ErrorS(err, "Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
