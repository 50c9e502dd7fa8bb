// Package metrics exposes Prometheus collectors for HTTP traffic and
// provider calls
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server records into. Each instance owns
// its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	activeRequests  prometheus.Gauge

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	droppedRecipes   prometheus.Counter
	classifierFalls  prometheus.Counter
	rateLimited      *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		activeRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_requests",
				Help: "Number of active HTTP requests",
			},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Total number of AI provider calls",
			},
			[]string{"provider", "operation", "status"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "AI provider call duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "operation"},
		),
		droppedRecipes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_embedded_recipes_dropped_total",
				Help: "Embedded chat recipes that could not be parsed",
			},
		),
		classifierFalls: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "classifier_fallbacks_total",
				Help: "Times the classifier served demo ingredients after a failure",
			},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestCount,
		m.activeRequests,
		m.providerCalls,
		m.providerDuration,
		m.droppedRecipes,
		m.classifierFalls,
		m.rateLimited,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RequestStarted()  { m.activeRequests.Inc() }
func (m *Metrics) RequestFinished() { m.activeRequests.Dec() }

// RecordRequest records request metrics
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(method, path, statusStr).Inc()
}

// RecordProviderCall records one adapter call. status is "ok" or an error kind.
func (m *Metrics) RecordProviderCall(provider, operation, status string, duration time.Duration) {
	m.providerCalls.WithLabelValues(provider, operation, status).Inc()
	m.providerDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

func (m *Metrics) RecipesDropped(n int) {
	if n > 0 {
		m.droppedRecipes.Add(float64(n))
	}
}

func (m *Metrics) ClassifierFallback() { m.classifierFalls.Inc() }

func (m *Metrics) RateLimited(path string) { m.rateLimited.WithLabelValues(path).Inc() }
