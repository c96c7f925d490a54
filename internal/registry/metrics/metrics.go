// Package metrics exposes Prometheus instrumentation for the registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's Prometheus collectors. A nil *Metrics is
// valid; every method no-ops so tests can skip instrumentation.
type Metrics struct {
	registrations  *prometheus.CounterVec
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
}

// New creates and registers the registry metrics.
func New() *Metrics {
	return &Metrics{
		registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "uniregistry_registrations_total",
			Help: "Registration attempts by outcome (committed, permission_denied, duplicate_account, error)",
		}, []string{"outcome"}),
		lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "uniregistry_lookups_total",
			Help: "Read operations by kind (all, by_name, by_account, integrity)",
		}, []string{"kind"}),
		lookupDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uniregistry_lookup_duration_seconds",
			Help:    "Latency of read operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"kind"}),
	}
}

// RecordRegistration counts a registration attempt by outcome.
func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

// RecordLookup counts a read operation and observes its latency.
func (m *Metrics) RecordLookup(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind).Inc()
	m.lookupDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
