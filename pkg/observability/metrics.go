package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the prometheus registry and the collectors the service
// exposes on /metrics
type Metrics struct {
	registry *prometheus.Registry

	busOps        *prometheus.CounterVec
	busDurations  *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
	computations  *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		busOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pursuit_bus_operations_total",
			Help: "Command and query bus operations by metric name and type",
		}, []string{"metric", "operation"}),
		busDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pursuit_bus_duration_seconds",
			Help:    "Command and query handling duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"metric", "operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pursuit_http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pursuit_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pursuit_analytics_computations_total",
			Help: "Analytics engine computations by kind and outcome",
		}, []string{"kind", "outcome"}),
	}

	registry.MustRegister(
		m.busOps,
		m.busDurations,
		m.httpRequests,
		m.httpDurations,
		m.computations,
	)

	return m
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Increment bumps a bus operation counter
func (m *Metrics) Increment(metric, operation string) {
	m.busOps.WithLabelValues(metric, operation).Inc()
}

// StartTimer starts a bus duration observation
func (m *Metrics) StartTimer(metric, operation string) *TimerHandle {
	return &TimerHandle{
		start:    time.Now(),
		observer: m.busDurations.WithLabelValues(metric, operation),
	}
}

// RecordHTTPRequest observes one finished HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordComputation counts one analytics computation
func (m *Metrics) RecordComputation(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.computations.WithLabelValues(kind, outcome).Inc()
}

// TimerHandle observes elapsed time on Stop
type TimerHandle struct {
	start    time.Time
	observer prometheus.Observer
}

// Stop records the elapsed duration
func (t *TimerHandle) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}
