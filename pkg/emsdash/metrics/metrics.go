package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "emsdash"

var (
	// DatasetLoadDuration measures the one-time disk read per dataset key
	DatasetLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent reading a dataset file from disk",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"region", "industry"},
	)

	// DatasetRecords tracks the record count of each loaded dataset
	DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in a loaded dataset",
		},
		[]string{"region", "industry"},
	)

	// CacheHits counts dataset cache hits
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_hits_total",
			Help:      "Number of dataset loads served from the in-memory cache",
		},
	)

	// CacheMisses counts dataset cache misses (disk reads)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_misses_total",
			Help:      "Number of dataset loads that required a disk read",
		},
	)

	// RequestDuration measures HTTP handler latency per route
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of dashboard HTTP requests",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(DatasetLoadDuration)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(RequestDuration)
}
