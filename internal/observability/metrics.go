// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Import metrics
	TradesImported       prometheus.Counter
	StrategiesImported   prometheus.Counter
	ComplianceImported   prometheus.Counter
	TransactionsImported prometheus.Counter
	ImportErrors         *prometheus.CounterVec

	// Analytics metrics
	SnapshotsComputed  *prometheus.CounterVec
	SnapshotDuration   prometheus.Histogram
	BucketsPerSnapshot prometheus.Histogram

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Realtime metrics
	ConnectedClients prometheus.Gauge
	EventsBroadcast  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulImport   prometheus.Gauge
	LastSuccessfulSnapshot prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_journal_lab"
	}

	return &Metrics{
		// Import metrics
		TradesImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "trades_total",
			Help:      "Total number of trades imported",
		}),
		StrategiesImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "strategies_total",
			Help:      "Total number of strategy annotations imported",
		}),
		ComplianceImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "compliance_days_total",
			Help:      "Total number of daily compliance rows imported",
		}),
		TransactionsImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "transactions_total",
			Help:      "Total number of ledger transactions imported",
		}),
		ImportErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "errors_total",
			Help:      "Total number of import errors by record type",
		}, []string{"record_type", "error_type"}),

		// Analytics metrics
		SnapshotsComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "snapshots_computed_total",
			Help:      "Total number of analytics snapshots computed by status",
		}, []string{"status"}),
		SnapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "snapshot_duration_seconds",
			Help:      "Snapshot computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		BucketsPerSnapshot: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "buckets_per_snapshot",
			Help:      "Number of aggregation buckets per computed snapshot",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 365},
		}),

		// Cache metrics
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of snapshot cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of snapshot cache misses",
		}),

		// Realtime metrics
		ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connected_clients",
			Help:      "Current number of connected WebSocket clients",
		}),
		EventsBroadcast: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "events_broadcast_total",
			Help:      "Total number of events broadcast by type",
		}, []string{"event_type"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulImport: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_import_timestamp",
			Help:      "Unix timestamp of last successful import",
		}),
		LastSuccessfulSnapshot: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_snapshot_timestamp",
			Help:      "Unix timestamp of last successful snapshot computation",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradesImported adds to the trades imported counter and bumps the
// import health timestamp.
func RecordTradesImported(n int) {
	DefaultMetrics.TradesImported.Add(float64(n))
	DefaultMetrics.LastSuccessfulImport.SetToCurrentTime()
}

// RecordImportError increments the import error counter.
func RecordImportError(recordType, errorType string) {
	DefaultMetrics.ImportErrors.WithLabelValues(recordType, errorType).Inc()
}

// RecordSnapshot observes one snapshot computation.
func RecordSnapshot(status string, duration time.Duration, buckets int) {
	DefaultMetrics.SnapshotsComputed.WithLabelValues(status).Inc()
	DefaultMetrics.SnapshotDuration.Observe(duration.Seconds())
	if status == "ok" {
		DefaultMetrics.BucketsPerSnapshot.Observe(float64(buckets))
		DefaultMetrics.LastSuccessfulSnapshot.SetToCurrentTime()
	}
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.CacheMisses.Inc()
}

// RecordBroadcast increments the broadcast counter for an event type.
func RecordBroadcast(eventType string) {
	DefaultMetrics.EventsBroadcast.WithLabelValues(eventType).Inc()
}
