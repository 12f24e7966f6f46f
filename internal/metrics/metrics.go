// Package metrics exposes the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"sportcenter/internal/facility"
)

// Metrics groups the collectors the services record into. A nil *Metrics
// records nothing.
type Metrics struct {
	Operations *prometheus.CounterVec
	Admissions *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportcenter",
			Name:      "operations_total",
			Help:      "Mutating operations by entity, operation and outcome.",
		}, []string{"entity", "op", "outcome"}),
		Admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportcenter",
			Name:      "admission_decisions_total",
			Help:      "Capacity decisions by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Operations, m.Admissions)
	return m
}

// Observe records the outcome of op on entity.
func (m *Metrics) Observe(entity, op string, err error, success facility.OutcomeKind) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(entity, op, string(facility.Describe(err, success).Kind)).Inc()
}

// Admission records a capacity decision.
func (m *Metrics) Admission(admitted bool) {
	if m == nil {
		return
	}
	result := "admitted"
	if !admitted {
		result = "rejected"
	}
	m.Admissions.WithLabelValues(result).Inc()
}
