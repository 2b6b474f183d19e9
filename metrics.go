package sazito

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request pipeline.
// Every method is safe on a nil receiver.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheSize          prometheus.Gauge
	cacheInvalidations *prometheus.CounterVec

	deduplicationHits *prometheus.CounterVec
	rateLimitWaits    *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec

	circuitState      prometheus.Gauge
	circuitRejections *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registry)
	return &MetricsCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_requests_total",
				Help: "Total number of SDK requests by outcome",
			},
			[]string{"method", "status_code", "family"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sazito_request_duration_seconds",
				Help:    "Duration of SDK requests in seconds, retries included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "family"},
		),
		requestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sazito_requests_in_flight",
				Help: "Number of SDK requests currently in flight",
			},
			[]string{"method", "family"},
		),
		retriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_retries_total",
				Help: "Total number of retry attempts after 5xx responses",
			},
			[]string{"method", "family", "attempt"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"family"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"family"},
		),
		cacheSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sazito_cache_size",
				Help: "Current number of entries in cache",
			},
		),
		cacheInvalidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_cache_invalidated_entries_total",
				Help: "Total number of cache entries purged by mutating requests",
			},
			[]string{"family"},
		),
		deduplicationHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_deduplication_hits_total",
				Help: "Total number of GETs served by another in-flight request",
			},
			[]string{"family"},
		),
		rateLimitWaits: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sazito_rate_limit_wait_seconds",
				Help:    "Time spent waiting for the client-side rate limiter",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"family"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_errors_total",
				Help: "Total number of failed requests by kind",
			},
			[]string{"kind", "method", "family"},
		),
		circuitState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sazito_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
		),
		circuitRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sazito_circuit_breaker_rejections_total",
				Help: "Total number of calls rejected by an open circuit breaker",
			},
			[]string{"family"},
		),
		registry: registry,
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method string, family Family, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	mc.requestsTotal.WithLabelValues(method, strconv.Itoa(statusCode), string(family)).Inc()
	mc.requestDuration.WithLabelValues(method, string(family)).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method string, family Family) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, string(family)).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method string, family Family) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, string(family)).Dec()
}

// RecordRetry increments retry counter for an attempt.
func (mc *MetricsCollector) RecordRetry(method string, family Family, attempt int) {
	if mc == nil {
		return
	}

	mc.retriesTotal.WithLabelValues(method, string(family), strconv.Itoa(attempt)).Inc()
}

func (mc *MetricsCollector) RecordCacheHit(family Family) {
	if mc == nil {
		return
	}

	mc.cacheHits.WithLabelValues(string(family)).Inc()
}

func (mc *MetricsCollector) RecordCacheMiss(family Family) {
	if mc == nil {
		return
	}

	mc.cacheMisses.WithLabelValues(string(family)).Inc()
}

func (mc *MetricsCollector) RecordCacheSize(size int) {
	if mc == nil {
		return
	}

	mc.cacheSize.Set(float64(size))
}

// RecordInvalidation counts entries purged for family.
func (mc *MetricsCollector) RecordInvalidation(family Family, removed int) {
	if mc == nil {
		return
	}

	mc.cacheInvalidations.WithLabelValues(string(family)).Add(float64(removed))
}

func (mc *MetricsCollector) RecordDeduplicationHit(family Family) {
	if mc == nil {
		return
	}

	mc.deduplicationHits.WithLabelValues(string(family)).Inc()
}

func (mc *MetricsCollector) RecordRateLimitWait(family Family, waited time.Duration) {
	if mc == nil {
		return
	}

	mc.rateLimitWaits.WithLabelValues(string(family)).Observe(waited.Seconds())
}

// RecordError increments error counter by kind.
func (mc *MetricsCollector) RecordError(kind ErrorKind, method string, family Family) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(string(kind), method, string(family)).Inc()
}

// RecordCircuitState sets the breaker state gauge.
func (mc *MetricsCollector) RecordCircuitState(state CircuitState) {
	if mc == nil {
		return
	}

	mc.circuitState.Set(float64(state))
}

// RecordCircuitRejection counts a call refused by the open breaker.
func (mc *MetricsCollector) RecordCircuitRejection(family Family) {
	if mc == nil {
		return
	}

	mc.circuitRejections.WithLabelValues(string(family)).Inc()
}

// GetRegistry exposes the underlying prometheus registry when it is a
// *prometheus.Registry, nil otherwise.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	reg, _ := mc.registry.(*prometheus.Registry)
	return reg
}
