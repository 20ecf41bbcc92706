package infrastructure

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "weatherbot"

// PrometheusMetricsCollector implements the MetricsCollector port on a private registry
type PrometheusMetricsCollector struct {
	registry *prometheus.Registry

	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheHitRatio   prometheus.Gauge
	weatherAPICalls *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	scanDuration    prometheus.Histogram
	scanMatched     prometheus.Gauge
	backoffs        prometheus.Counter

	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewPrometheusMetricsCollector registers the bot metrics plus Go and process collectors
func NewPrometheusMetricsCollector() *PrometheusMetricsCollector {
	registry := prometheus.NewRegistry()

	m := &PrometheusMetricsCollector{
		registry: registry,
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "The total number of fresh weather cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_misses_total",
			Help:      "The total number of weather cache misses, stale entries included",
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hit_ratio",
			Help:      "Cache hit ratio (hits/total lookups)",
		}),
		weatherAPICalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "weather_api_calls_total",
			Help:      "Upstream weather API calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Scheduled notifications processed by outcome",
		}, []string{"outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scheduler_scan_duration_seconds",
			Help:      "Duration of a notification scan",
			Buckets:   prometheus.DefBuckets,
		}),
		scanMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "scheduler_last_scan_matched",
			Help:      "Schedules due in the most recent scan",
		}),
		backoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scheduler_backoffs_total",
			Help:      "Scans that failed and put the scheduler into backoff",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cacheHits,
		m.cacheMisses,
		m.cacheHitRatio,
		m.weatherAPICalls,
		m.notifications,
		m.scanDuration,
		m.scanMatched,
		m.backoffs,
	)

	return m
}

func (m *PrometheusMetricsCollector) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Inc()
	m.mu.Lock()
	m.hits++
	m.updateHitRatio()
	m.mu.Unlock()
}

func (m *PrometheusMetricsCollector) RecordCacheMiss(ctx context.Context) {
	m.cacheMisses.Inc()
	m.mu.Lock()
	m.misses++
	m.updateHitRatio()
	m.mu.Unlock()
}

// updateHitRatio must be called with mu held
func (m *PrometheusMetricsCollector) updateHitRatio() {
	if total := m.hits + m.misses; total > 0 {
		m.cacheHitRatio.Set(float64(m.hits) / float64(total))
	}
}

func (m *PrometheusMetricsCollector) RecordWeatherAPICall(ctx context.Context, provider string, outcome string) {
	m.weatherAPICalls.WithLabelValues(provider, outcome).Inc()
}

func (m *PrometheusMetricsCollector) RecordNotification(ctx context.Context, outcome string) {
	m.notifications.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetricsCollector) RecordScan(ctx context.Context, matched int, duration time.Duration) {
	m.scanDuration.Observe(duration.Seconds())
	m.scanMatched.Set(float64(matched))
}

func (m *PrometheusMetricsCollector) RecordSchedulerBackoff(ctx context.Context) {
	m.backoffs.Inc()
}

// Registry exposes the underlying registry, mainly for tests
func (m *PrometheusMetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *PrometheusMetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
