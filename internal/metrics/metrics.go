package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes recorded on DraftSubmissionsTotal
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPartial = "partial"
	StatusDryRun  = "dry_run"
)

// Metrics holds all Prometheus metrics of the console service
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Draft metrics
	DraftOperationsTotal  *prometheus.CounterVec
	DraftSubmissionsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a registry of their own,
// together with the go and process collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DraftOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_draft_operations_total",
				Help: "Total number of draft mutations by operation",
			},
			[]string{"operation"},
		),
		DraftSubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_draft_submissions_total",
				Help: "Total number of draft submissions by entity type and outcome",
			},
			[]string{"entity_type", "status"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DraftOperationsTotal,
		m.DraftSubmissionsTotal,
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// DraftOperation counts one draft mutation
func (m *Metrics) DraftOperation(operation string) {
	m.DraftOperationsTotal.WithLabelValues(operation).Inc()
}

// DraftSubmission counts one submit attempt
func (m *Metrics) DraftSubmission(entityType, status string) {
	m.DraftSubmissionsTotal.WithLabelValues(entityType, status).Inc()
}
