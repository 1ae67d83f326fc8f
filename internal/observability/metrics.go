package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the risk service.
type Metrics struct {
	// Request metrics.
	HeatmapRequests *prometheus.CounterVec // labels: scope={overall,filtered}
	NearestRequests prometheus.Counter
	NearestResults  prometheus.Histogram

	// Cache metrics.
	CacheLookups        *prometheus.CounterVec // labels: tier={payload,summary,query}, result={hit,miss}
	CacheEvictions      prometheus.Counter
	ArtifactWriteErrors *prometheus.CounterVec // labels: artifact
	GeocodeMemoSize     prometheus.Gauge

	// Aggregate source metrics.
	SourceQueryDuration *prometheus.HistogramVec // labels: query={top,all,statistics,details}
	SourceErrors        *prometheus.CounterVec   // labels: query

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	SnapshotErrors     prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.HeatmapRequests,
		m.NearestRequests,
		m.NearestResults,
		m.CacheLookups,
		m.CacheEvictions,
		m.ArtifactWriteErrors,
		m.GeocodeMemoSize,
		m.SourceQueryDuration,
		m.SourceErrors,
		m.SnapshotsPublished,
		m.SnapshotErrors,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HeatmapRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "heatmap_requests_total",
			Help:      "Heatmap requests by scope.",
		}, []string{"scope"}),
		NearestRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "nearest_requests_total",
			Help:      "Nearest-violation risk ranking requests.",
		}),
		NearestResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parkwise",
			Name:      "nearest_results",
			Help:      "Number of ranked locations returned per nearest request.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by tier and result.",
		}, []string{"tier", "result"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "query_cache_evictions_total",
			Help:      "Filtered query results evicted from the bounded LRU cache.",
		}),
		ArtifactWriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "artifact_write_errors_total",
			Help:      "Failed writes of persisted cache artifacts.",
		}, []string{"artifact"}),
		GeocodeMemoSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parkwise",
			Name:      "geocode_memo_entries",
			Help:      "Locations memoized by the synthetic geocoder.",
		}),
		SourceQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parkwise",
			Name:      "source_query_duration_seconds",
			Help:      "Aggregate source query duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"query"}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "source_errors_total",
			Help:      "Aggregate source query failures.",
		}, []string{"query"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "snapshots_published_total",
			Help:      "Overall heatmap snapshots published to Kafka.",
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parkwise",
			Name:      "snapshot_errors_total",
			Help:      "Failed overall heatmap snapshot publishes.",
		}),
	}
}
