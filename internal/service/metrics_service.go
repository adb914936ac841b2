package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-adp-console/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	fetchDuration    *prometheus.HistogramVec
	staleResponses   *prometheus.CounterVec
	formSubmissions  *prometheus.CounterVec
	dashboardFailure *prometheus.CounterVec

	cacheHitCount      uint64
	cacheMissCount     uint64
	requestCount       uint64
	requestDurationSum uint64
	fetchCount         uint64
	fetchDurationSum   uint64
	staleCount         uint64
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
		Help:    "Latency for cache operations",
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

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_fetch_duration_seconds",
		Help:    "Duration of backend list fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "outcome"})

	staleResponses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_stale_responses_total",
		Help: "List responses discarded because a newer load was issued",
	}, []string{"resource"})

	formSubmissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_form_submissions_total",
		Help: "Form submissions by outcome",
	}, []string{"resource", "outcome"})

	dashboardFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_dashboard_source_failures_total",
		Help: "Dashboard sources that failed and were defaulted",
	}, []string{"source"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		fetchDuration, staleResponses, formSubmissions, dashboardFailure, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		fetchDuration:    fetchDuration,
		staleResponses:   staleResponses,
		formSubmissions:  formSubmissions,
		dashboardFailure: dashboardFailure,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationSum, uint64(duration.Nanoseconds()))
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
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
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

// ObserveFetch records one backend list fetch.
func (m *MetricsService) ObserveFetch(resource models.Resource, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.fetchDuration.WithLabelValues(string(resource), outcome).Observe(duration.Seconds())
	atomic.AddUint64(&m.fetchCount, 1)
	atomic.AddUint64(&m.fetchDurationSum, uint64(duration.Nanoseconds()))
}

// IncStaleResponse counts a list response dropped by sequence check.
func (m *MetricsService) IncStaleResponse(resource models.Resource) {
	if m == nil {
		return
	}
	m.staleResponses.WithLabelValues(string(resource)).Inc()
	atomic.AddUint64(&m.staleCount, 1)
}

// IncFormSubmission counts a submit attempt: "invalid", "success" or "error".
func (m *MetricsService) IncFormSubmission(resource models.Resource, outcome string) {
	if m == nil {
		return
	}
	m.formSubmissions.WithLabelValues(string(resource), outcome).Inc()
}

// IncDashboardFailure counts a defaulted dashboard source.
func (m *MetricsService) IncDashboardFailure(source string) {
	if m == nil {
		return
	}
	m.dashboardFailure.WithLabelValues(source).Inc()
}

// Snapshot returns aggregated metrics suitable for the console status endpoint.
func (m *MetricsService) Snapshot() models.ConsoleMetrics {
	if m == nil {
		return models.ConsoleMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationSum)
	fetches := atomic.LoadUint64(&m.fetchCount)
	fetchDuration := atomic.LoadUint64(&m.fetchDurationSum)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgFetchMs float64
	if fetches > 0 {
		avgFetchMs = float64(fetchDuration) / float64(fetches) / float64(time.Millisecond)
	}

	return models.ConsoleMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		FetchCount:               fetches,
		AverageFetchDurationMs:   avgFetchMs,
		StaleResponses:           atomic.LoadUint64(&m.staleCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
