package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "logviewer"

// Metrics holds all Prometheus metrics for the viewer service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	FilterRequestsTotal *prometheus.CounterVec
	MatchedEntries      prometheus.Histogram
	LinesTotal          *prometheus.CounterVec
	FileReadErrors      prometheus.Counter
	SnapshotCacheHits   prometheus.Counter
	SnapshotCacheMisses prometheus.Counter
	SnapshotsCached     prometheus.Gauge
	SnapshotEvictions   prometheus.Counter
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		FilterRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "requests_total",
			Help:      "Total number of filter operations by source and outcome.",
		}, []string{"source", "outcome"}), // source: file, snapshot; outcome: success, invalid, error
		MatchedEntries: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "filter",
			Name:      "matched_entries",
			Help:      "Number of entries surviving a filter operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		LinesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "lines_total",
			Help:      "Total number of log lines read by result.",
		}, []string{"result"}), // result: parsed, skipped, failed
		FileReadErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "file_read_errors_total",
			Help:      "Total number of log files that could not be read.",
		}),
		SnapshotCacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "cache_hits_total",
			Help:      "Total number of snapshot cache hits.",
		}),
		SnapshotCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "cache_misses_total",
			Help:      "Total number of snapshot cache misses.",
		}),
		SnapshotsCached: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "cached",
			Help:      "Number of snapshots currently cached.",
		}),
		SnapshotEvictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "evictions_total",
			Help:      "Total number of snapshots evicted or invalidated.",
		}),
	}
}
