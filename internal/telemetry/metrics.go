package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the report gateway.
type Metrics struct {
	RequestTotal         *prometheus.CounterVec
	RequestDurationMs    *prometheus.HistogramVec
	ProviderAttemptTotal *prometheus.CounterVec
	FallbackTotal        *prometheus.CounterVec
	ModuleEmittedTotal   *prometheus.CounterVec
	CacheHitTotal        prometheus.Counter
	RateLimitHitTotal    prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_request_total",
			Help: "Report generation requests by serving provider, status, and language.",
		}, []string{"provider", "status", "lang"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_request_duration_ms",
			Help:    "Full chain traversal duration in milliseconds.",
			Buckets: []float64{250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
		}, []string{"provider"}),

		ProviderAttemptTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_provider_attempt_total",
			Help: "Individual provider attempts by outcome.",
		}, []string{"provider", "outcome"}),

		FallbackTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_fallback_total",
			Help: "Chain advances from a failed provider to the next one.",
		}, []string{"from", "to"}),

		ModuleEmittedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_module_emitted_total",
			Help: "Report modules delivered to clients, streaming included.",
		}, []string{"module"}),

		CacheHitTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "report_cache_hit_total",
			Help: "Requests served entirely from the fragment cache.",
		}),

		RateLimitHitTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "report_rate_limit_hit_total",
			Help: "Requests rejected by the per-IP rate limiter.",
		}),
	}
}

// RecordRequest records a completed generation request.
func (m *Metrics) RecordRequest(provider, status, lang string, durationMs float64) {
	m.RequestTotal.WithLabelValues(provider, status, lang).Inc()
	m.RequestDurationMs.WithLabelValues(provider).Observe(durationMs)
}

// RecordAttempt records one provider attempt.
func (m *Metrics) RecordAttempt(provider, outcome string) {
	m.ProviderAttemptTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordFallback records a chain advance.
func (m *Metrics) RecordFallback(from, to string) {
	m.FallbackTotal.WithLabelValues(from, to).Inc()
}

// RecordModuleEmitted records one module delivered to a client.
func (m *Metrics) RecordModuleEmitted(module string) {
	m.ModuleEmittedTotal.WithLabelValues(module).Inc()
}

// RecordCacheHit records a request served from cache.
func (m *Metrics) RecordCacheHit() {
	m.CacheHitTotal.Inc()
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitTotal.Inc()
}
