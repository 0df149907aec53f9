package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
)

// MetricsSnapshot is a JSON friendly view of the collected counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	ValidationFailures       uint64    `json:"validation_failures"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	cacheLatency       prometheus.Observer
	cacheWrite         prometheus.Observer
	cacheHitRatio      prometheus.Gauge
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	dbQueryDuration    *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	entityMutations    *prometheus.CounterVec

	cacheHitCount          uint64
	cacheMissCount         uint64
	requestCount           uint64
	requestDurationTotal   uint64
	dbQueryCount           uint64
	dbQueryDurationTotal   uint64
	validationFailureCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of entity record queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	validationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_validation_failures_total",
		Help: "Failed field rules per entity kind",
	}, []string{"kind", "field"})

	entityMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_mutations_total",
		Help: "Persisted entity changes per kind and operation",
	}, []string{"kind", "operation"})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		dbQueryDuration, validationFailures, entityMutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		dbQueryDuration:    dbQueryDuration,
		validationFailures: validationFailures,
		entityMutations:    entityMutations,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordValidationFailure counts every failing field of a rejected entity.
func (m *MetricsService) RecordValidationFailure(kind models.Kind, result models.ValidationResult) {
	if m == nil || result.IsValid {
		return
	}
	for field := range result.Errors {
		m.validationFailures.WithLabelValues(string(kind), field).Inc()
	}
	atomic.AddUint64(&m.validationFailureCount, 1)
}

// RecordMutation counts a persisted change.
func (m *MetricsService) RecordMutation(kind models.Kind, operation string) {
	if m == nil {
		return
	}
	m.entityMutations.WithLabelValues(string(kind), operation).Inc()
}

// Snapshot returns aggregated metrics.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	snap := MetricsSnapshot{
		RequestsTotal:      requests,
		CacheHits:          hits,
		CacheMisses:        misses,
		ValidationFailures: atomic.LoadUint64(&m.validationFailureCount),
		DBQueryCount:       dbCount,
		Goroutines:         runtime.NumGoroutine(),
		GeneratedAt:        time.Now().UTC(),
	}
	if lookups := hits + misses; lookups > 0 {
		snap.CacheHitRatio = float64(hits) / float64(lookups)
	}
	if requests > 0 {
		snap.AverageRequestDurationMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}
	if dbCount > 0 {
		snap.AverageDBQueryDurationMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}
	return snap
}
