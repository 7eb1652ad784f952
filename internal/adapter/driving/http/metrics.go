package httphandler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API, registered on a
// private registry so tests can create as many as they like.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	recordsCreated  prometheus.Counter
	incrementsTotal prometheus.Counter
}

// NewMetrics creates and registers the API collectors plus the standard Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modelkeeper",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "modelkeeper",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "modelkeeper",
			Name:      "records_created_total",
			Help:      "Model records created.",
		}),
		incrementsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "modelkeeper",
			Name:      "record_increments_total",
			Help:      "Increments applied to model records.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.recordsCreated,
		m.incrementsTotal,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
