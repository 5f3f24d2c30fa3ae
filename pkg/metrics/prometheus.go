// Package metrics provides Prometheus metrics for the betalog training service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metric name parts.
const (
	defaultNamespace = "betalog"
	defaultSubsystem = "core"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Document store client metrics.
	storeRequests        *prometheus.CounterVec
	storeRequestDuration *prometheus.HistogramVec

	// Panel catalog cache metrics.
	catalogCacheHits     prometheus.Counter
	catalogCacheMisses   prometheus.Counter
	catalogCacheRefreshes prometheus.Counter

	// Aggregation metrics.
	aggregationDuration *prometheus.HistogramVec
	aggregationSkipped  prometheus.Counter

	// Training session metrics.
	sessionsSaved     prometheus.Counter
	sessionsDiscarded prometheus.Counter
	activeRecorder    prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var defaultManager *Manager

func init() { //nolint:gochecknoinits // global metrics setup mirrors process lifetime
	defaultManager = NewManager()
}

// NewManager creates a metrics manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.storeRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_requests_total",
		Help:      "Document store requests by operation and result.",
	}, []string{"operation", "result"})

	m.storeRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_request_duration_ms",
		Help:      "Document store request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.catalogCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_cache_hits_total",
		Help:      "Panel catalog reads served from cache.",
	})

	m.catalogCacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_cache_misses_total",
		Help:      "Panel catalog reads that required a backend fetch.",
	})

	m.catalogCacheRefreshes = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_cache_refreshes_total",
		Help:      "Successful panel catalog refreshes.",
	})

	m.aggregationDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_duration_ms",
		Help:      "Dashboard aggregation latency in milliseconds by computation.",
		Buckets:   m.histogramBuckets,
	}, []string{"computation"})

	m.aggregationSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_skipped_entries_total",
		Help:      "Completed-route entries skipped because the route could not be resolved.",
	})

	m.sessionsSaved = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_saved_total",
		Help:      "Training sessions persisted to the document store.",
	})

	m.sessionsDiscarded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_discarded_total",
		Help:      "Training sessions ended without being persisted.",
	})

	m.activeRecorder = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_recorder",
		Help:      "Whether a training session recorder is currently active (0 or 1).",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level recorders against the default manager.

// RecordStoreRequest counts one document store request.
func RecordStoreRequest(operation, result string) {
	if defaultManager.enabled {
		defaultManager.storeRequests.WithLabelValues(operation, result).Inc()
	}
}

// RecordStoreRequestDuration observes document store latency.
func RecordStoreRequestDuration(operation string, durationMs float64) {
	if defaultManager.enabled {
		defaultManager.storeRequestDuration.WithLabelValues(operation).Observe(durationMs)
	}
}

// RecordCatalogCacheHit counts a catalog read served from cache.
func RecordCatalogCacheHit() {
	if defaultManager.enabled {
		defaultManager.catalogCacheHits.Inc()
	}
}

// RecordCatalogCacheMiss counts a catalog read that went to the backend.
func RecordCatalogCacheMiss() {
	if defaultManager.enabled {
		defaultManager.catalogCacheMisses.Inc()
	}
}

// RecordCatalogCacheRefresh counts a successful catalog refresh.
func RecordCatalogCacheRefresh() {
	if defaultManager.enabled {
		defaultManager.catalogCacheRefreshes.Inc()
	}
}

// RecordAggregationDuration observes one aggregation computation.
func RecordAggregationDuration(computation string, durationMs float64) {
	if defaultManager.enabled {
		defaultManager.aggregationDuration.WithLabelValues(computation).Observe(durationMs)
	}
}

// RecordAggregationSkippedEntry counts a completed-route entry dropped
// because its route could not be resolved.
func RecordAggregationSkippedEntry() {
	if defaultManager.enabled {
		defaultManager.aggregationSkipped.Inc()
	}
}

// RecordSessionSaved counts a persisted training session.
func RecordSessionSaved() {
	if defaultManager.enabled {
		defaultManager.sessionsSaved.Inc()
	}
}

// RecordSessionDiscarded counts a training session ended without saving.
func RecordSessionDiscarded() {
	if defaultManager.enabled {
		defaultManager.sessionsDiscarded.Inc()
	}
}

// SetRecorderActive flags whether a recorder is currently running.
func SetRecorderActive(active bool) {
	if !defaultManager.enabled {
		return
	}
	if active {
		defaultManager.activeRecorder.Set(1)
	} else {
		defaultManager.activeRecorder.Set(0)
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if defaultManager.enabled {
		defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	if defaultManager.enabled {
		defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
	}
}

// GetRegistry returns the registry backing the default manager, for use by
// the health endpoint's metrics handler.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}
