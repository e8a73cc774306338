package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rejection reasons for the sessions_rejected_total counter.
const (
	ReasonCapacity    = "capacity"
	ReasonRateLimited = "rate_limited"
)

// Metrics holds all application metrics.
type Metrics struct {
	// SessionsCreated counts successful session creations.
	SessionsCreated prometheus.Counter

	// SessionsClosed counts explicit session removals.
	SessionsClosed prometheus.Counter

	// SessionsExpired counts sessions reclaimed by the sweep.
	SessionsExpired prometheus.Counter

	// SessionsRejected counts refused creations by reason.
	SessionsRejected *prometheus.CounterVec

	// SweepDuration samples the duration of expiration sweeps.
	SweepDuration prometheus.Histogram

	registry *prometheus.Registry
}

// New creates the metrics set in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessgate_sessions_created_total",
			Help: "Total number of sessions created.",
		}),
		SessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessgate_sessions_closed_total",
			Help: "Total number of sessions closed explicitly.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessgate_sessions_expired_total",
			Help: "Total number of sessions reclaimed by the expiration sweep.",
		}),
		SessionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessgate_sessions_rejected_total",
			Help: "Total number of refused session creations, by reason.",
		}, []string{"reason"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sessgate_sweep_duration_seconds",
			Help:    "Duration of expiration sweep passes.",
			Buckets: prometheus.DefBuckets,
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SessionsCreated,
		m.SessionsClosed,
		m.SessionsExpired,
		m.SessionsRejected,
		m.SweepDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// MustRegister adds a collector to the metrics registry.
func (m *Metrics) MustRegister(c prometheus.Collector) {
	m.registry.MustRegister(c)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry's gather function for tests
// and embedders.
func (m *Metrics) Gather() prometheus.Gatherer {
	return m.registry
}
