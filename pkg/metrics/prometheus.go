// Package metrics provides Prometheus metrics for the rigger lineup service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rigger service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Optimization Metrics - What really matters for a lineup engine
	optimizationRuns     prometheus.Counter
	optimizationFailures prometheus.Counter
	optimizationDuration prometheus.Histogram
	generationsExecuted  prometheus.Histogram
	bestFitness          prometheus.Gauge
	fitnessEvaluations   prometheus.Counter
	stagnationExits      prometheus.Counter

	// Prediction Metrics
	predictions      prometheus.Counter
	predictionErrors prometheus.Counter
	comparisons      prometheus.Counter

	// Operational Health Metrics
	workerCount     prometheus.Gauge
	rosterSize      prometheus.Gauge
	lineupCacheSize prometheus.Gauge

	// Lineup Cache Metrics
	lineupCacheHits      prometheus.Counter
	lineupCacheMisses    prometheus.Counter
	lineupCacheEvictions prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rigger",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Optimization Metrics
	m.optimizationRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimization_runs_total",
		Help:      "Total number of optimization runs completed",
	})

	m.optimizationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimization_failures_total",
		Help:      "Total number of optimization runs rejected or failed",
	})

	m.optimizationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimization_duration_milliseconds",
		Help:      "Histogram of optimization run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.generationsExecuted = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generations_executed",
		Help:      "Histogram of generations executed per run (budget minus early exits)",
		Buckets:   []float64{5, 10, 25, 50, 100, 200, 500, 1000},
	})

	m.bestFitness = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_fitness",
		Help:      "Best fitness score of the most recent optimization run",
	})

	m.fitnessEvaluations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fitness_evaluations_total",
		Help:      "Total number of lineup fitness evaluations",
	})

	m.stagnationExits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stagnation_exits_total",
		Help:      "Total number of runs that exited early on fitness stagnation",
	})

	// Prediction Metrics
	m.predictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of race time predictions",
	})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_errors_total",
		Help:      "Total number of rejected prediction requests",
	})

	m.comparisons = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "comparisons_total",
		Help:      "Total number of lineup comparisons",
	})

	// Operational Health Metrics
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of fitness evaluation workers in the current run",
	})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Roster size of the most recent optimization run",
	})

	m.lineupCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lineup_cache_size",
		Help:      "Current number of lineups held in the recent-lineup cache",
	})

	// Lineup Cache Metrics
	m.lineupCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lineup_cache_hits_total",
		Help:      "Total number of lineup cache lookups that found an entry",
	})

	m.lineupCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lineup_cache_misses_total",
		Help:      "Total number of lineup cache lookups that missed",
	})

	m.lineupCacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lineup_cache_evictions_total",
		Help:      "Total number of lineups evicted from the cache",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordOptimizationRun increments the completed optimization runs counter.
func RecordOptimizationRun() {
	globalManager.optimizationRuns.Inc()
}

// RecordOptimizationFailure increments the failed optimization runs counter.
func RecordOptimizationFailure() {
	globalManager.optimizationFailures.Inc()
}

// RecordOptimizationDuration records an optimization run duration in milliseconds.
func RecordOptimizationDuration(latencyMs float64) {
	globalManager.optimizationDuration.Observe(latencyMs)
}

// RecordGenerationsExecuted records how many generations a run executed.
func RecordGenerationsExecuted(generations int) {
	globalManager.generationsExecuted.Observe(float64(generations))
}

// UpdateBestFitness sets the best fitness of the most recent run.
func UpdateBestFitness(score float64) {
	globalManager.bestFitness.Set(score)
}

// RecordFitnessEvaluations adds to the fitness evaluation counter.
func RecordFitnessEvaluations(count int) {
	globalManager.fitnessEvaluations.Add(float64(count))
}

// RecordStagnationExit increments the early-exit counter.
func RecordStagnationExit() {
	globalManager.stagnationExits.Inc()
}

// RecordPrediction increments the predictions counter.
func RecordPrediction() {
	globalManager.predictions.Inc()
}

// RecordPredictionError increments the rejected predictions counter.
func RecordPredictionError() {
	globalManager.predictionErrors.Inc()
}

// RecordComparison increments the comparisons counter.
func RecordComparison() {
	globalManager.comparisons.Inc()
}

// UpdateWorkerCount sets the current evaluation worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateRosterSize sets the roster size of the most recent run.
func UpdateRosterSize(count int) {
	globalManager.rosterSize.Set(float64(count))
}

// UpdateLineupCacheSize sets the current lineup cache occupancy.
func UpdateLineupCacheSize(size int) {
	globalManager.lineupCacheSize.Set(float64(size))
}

// RecordLineupCacheHit increments the cache hit counter.
func RecordLineupCacheHit() {
	globalManager.lineupCacheHits.Inc()
}

// RecordLineupCacheMiss increments the cache miss counter.
func RecordLineupCacheMiss() {
	globalManager.lineupCacheMisses.Inc()
}

// RecordLineupCacheEviction increments the cache eviction counter.
func RecordLineupCacheEviction() {
	globalManager.lineupCacheEvictions.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
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
