// Package metrics provides Prometheus metrics for the chess coaching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	llmBuckets       []float64
	registry         prometheus.Registerer

	// Archive traffic
	archiveRequests *prometheus.CounterVec
	monthsFetched   prometheus.Counter
	monthsFailed    prometheus.Counter

	// Record ingestion
	gamesNormalized prometheus.Counter
	gamesSkipped    *prometheus.CounterVec

	// Language-model pipeline
	llmCalls        *prometheus.CounterVec
	llmCallDuration *prometheus.HistogramVec
	analyses        *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPause        prometheus.Gauge
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
		namespace:        "chesscoach",
		subsystem:        "service",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		llmBuckets:       []float64{250, 500, 1000, 2500, 5000, 10000, 20000, 40000, 60000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.archiveRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_requests_total",
		Help:      "Requests sent to the game archive service by kind and outcome",
	}, []string{"kind", "outcome"})

	m.monthsFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_months_fetched_total",
		Help:      "Monthly archives fetched successfully",
	})

	m.monthsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_months_failed_total",
		Help:      "Monthly archives that could not be fetched or decoded (treated as empty)",
	})

	m.gamesNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_normalized_total",
		Help:      "Game records normalized into the canonical shape",
	})

	m.gamesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_skipped_total",
		Help:      "Game records excluded from analysis by reason",
	}, []string{"reason"})

	m.llmCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_calls_total",
		Help:      "Language-model calls by pipeline stage and outcome",
	}, []string{"stage", "outcome"})

	m.llmCallDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_call_duration_milliseconds",
		Help:      "Language-model call latency in milliseconds by pipeline stage",
		Buckets:   m.llmBuckets,
	}, []string{"stage"})

	m.analyses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_total",
		Help:      "Coaching analyses by kind and outcome",
	}, []string{"kind", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes currently allocated",
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of live goroutines",
	})

	m.gcPause = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_avg_milliseconds",
		Help:      "Average GC pause since process start in milliseconds",
	})
}

// RecordArchiveRequest counts one archive request. kind is "archives" or "month".
func RecordArchiveRequest(kind, outcome string) {
	globalManager.archiveRequests.WithLabelValues(kind, outcome).Inc()
}

// RecordMonthFetched counts a successfully decoded monthly archive.
func RecordMonthFetched() {
	globalManager.monthsFetched.Inc()
}

// RecordMonthFailed counts a monthly archive that degraded to an empty result.
func RecordMonthFailed() {
	globalManager.monthsFailed.Inc()
}

// RecordGamesNormalized adds n normalized records.
func RecordGamesNormalized(n int) {
	globalManager.gamesNormalized.Add(float64(n))
}

// RecordGameSkipped counts one record excluded for reason.
func RecordGameSkipped(reason string) {
	globalManager.gamesSkipped.WithLabelValues(reason).Inc()
}

// RecordLLMCall records one language-model call for a pipeline stage.
func RecordLLMCall(stage, outcome string, durationMs float64) {
	globalManager.llmCalls.WithLabelValues(stage, outcome).Inc()
	globalManager.llmCallDuration.WithLabelValues(stage).Observe(durationMs)
}

// RecordAnalysis counts a finished analysis. kind is "aggregate" or "game".
func RecordAnalysis(kind, outcome string) {
	globalManager.analyses.WithLabelValues(kind, outcome).Inc()
}

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
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.goroutineCount.Set(float64(n))
}

// RecordSystemGCPauseTime sets the average GC pause gauge.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.gcPause.Set(ms)
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it before any handler captures GetRegistry.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
