// Package metrics provides Prometheus metrics for the atlas read service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot load outcomes.
const (
	OutcomeLoaded = "loaded"
	OutcomeShared = "shared"
	OutcomeFailed = "failed"
)

// Manager manages all Prometheus metrics for the atlas service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	storeBuckets     []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Snapshot Metrics - loads of the per-year read set
	snapshotLoads       *prometheus.CounterVec
	snapshotLoadLatency prometheus.Histogram
	snapshotLastUnix    prometheus.Gauge
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter

	// Dataset Metrics - size of the last loaded snapshot
	sectorCount prometheus.Gauge
	regionCount prometheus.Gauge
	metricRows  prometheus.Gauge
	unmapped    prometheus.Gauge

	// Store Metrics - metric store queries
	storeQueryLatency *prometheus.HistogramVec
	storeQueryErrors  *prometheus.CounterVec

	// Engine Metrics
	aggregationLatency *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "atlas",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		storeBuckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.snapshotLoads = auto.NewCounterVec(
		m.counterOpts("snapshot_loads_total", "Snapshot loads by outcome (loaded, shared, failed)"),
		[]string{"outcome"},
	)
	m.snapshotLoadLatency = auto.NewHistogram(
		m.histogramOpts("snapshot_load_latency_milliseconds", "Wall time of a full snapshot load in milliseconds", m.histogramBuckets),
	)
	m.snapshotLastUnix = auto.NewGauge(
		m.gaugeOpts("snapshot_last_load_unix", "Unix time of the last successful snapshot load"),
	)
	m.cacheHits = auto.NewCounter(m.counterOpts("snapshot_cache_hits_total", "Snapshot reads served from cache"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("snapshot_cache_misses_total", "Snapshot reads that required a load"))

	m.sectorCount = auto.NewGauge(m.gaugeOpts("sectors", "Sectors in the last loaded snapshot"))
	m.regionCount = auto.NewGauge(m.gaugeOpts("regions", "Regions in the last loaded snapshot"))
	m.metricRows = auto.NewGauge(m.gaugeOpts("metric_rows", "Sector metric rows in the last loaded snapshot"))
	m.unmapped = auto.NewGauge(m.gaugeOpts("unmapped_sectors", "Sectors in the last loaded snapshot that match no known sector kind"))

	m.storeQueryLatency = auto.NewHistogramVec(
		m.histogramOpts("store_query_latency_milliseconds", "Metric store query latency in milliseconds", m.storeBuckets),
		[]string{"query"},
	)
	m.storeQueryErrors = auto.NewCounterVec(
		m.counterOpts("store_query_errors_total", "Metric store query failures"),
		[]string{"query"},
	)

	m.aggregationLatency = auto.NewHistogramVec(
		m.histogramOpts("aggregation_latency_milliseconds", "Time to build a dashboard view from a snapshot", m.histogramBuckets),
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.rateLimited = auto.NewCounterVec(
		m.counterOpts("rate_limited_total", "Requests rejected by the rate limiter"),
		[]string{"endpoint"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Snapshot Metrics Functions.

// RecordSnapshotLoad counts a snapshot load with its outcome and latency.
func RecordSnapshotLoad(outcome string, latencyMs float64) error {
	switch outcome {
	case OutcomeLoaded, OutcomeShared, OutcomeFailed:
	default:
		return ErrUnknownOutcome
	}
	globalManager.snapshotLoads.WithLabelValues(outcome).Inc()
	if outcome != OutcomeShared {
		globalManager.snapshotLoadLatency.Observe(latencyMs)
	}
	return nil
}

// UpdateSnapshotLoadedAt sets the time of the last successful load.
func UpdateSnapshotLoadedAt(unix int64) {
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// RecordCacheHit increments the snapshot cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the snapshot cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateSnapshotSize sets the dataset size gauges.
func UpdateSnapshotSize(sectors, regions, rows int) {
	globalManager.sectorCount.Set(float64(sectors))
	globalManager.regionCount.Set(float64(regions))
	globalManager.metricRows.Set(float64(rows))
}

// Store Metrics Functions.

// UpdateUnmappedSectors sets the number of sectors without a known kind.
func UpdateUnmappedSectors(n int) {
	globalManager.unmapped.Set(float64(n))
}

// RecordStoreQuery records the latency of a store query and counts it as an
// error when failed is true.
func RecordStoreQuery(query string, latencyMs float64, failed bool) {
	globalManager.storeQueryLatency.WithLabelValues(query).Observe(latencyMs)
	if failed {
		globalManager.storeQueryErrors.WithLabelValues(query).Inc()
	}
}

// RecordAggregationLatency records the time spent building a dashboard view.
func RecordAggregationLatency(operation string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(operation).Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler exposes the custom registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
