package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry so several
// servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.HistogramVec
	logins   *prometheus.CounterVec
	upserts  *prometheus.CounterVec
	rows     prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "attendance",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "logins_total",
			Help:      "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "upserts_total",
			Help:      "Attendance submissions by mode and outcome.",
		}, []string{"mode", "outcome"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "records_written_total",
			Help:      "Attendance rows written, counting each row of a batch.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.logins,
		m.upserts,
		m.rows,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
