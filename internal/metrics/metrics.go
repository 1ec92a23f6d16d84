// Package metrics holds the prometheus collectors for the workflow
// engine. All methods are nil-receiver safe so the engine can run
// without metrics wired.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the engine's collectors.
type Metrics struct {
	eventsTotal      *prometheus.CounterVec
	storeErrorsTotal prometheus.Counter
	transitionsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "questboard",
				Name:      "events_total",
				Help:      "Inbound chat events handled, by role and event kind.",
			},
			[]string{"role", "kind"},
		),
		storeErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "questboard",
				Name:      "store_errors_total",
				Help:      "Events that failed on the backing store.",
			},
		),
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "questboard",
				Name:      "task_transitions_total",
				Help:      "Task status transitions, by event and outcome.",
			},
			[]string{"event", "outcome"},
		),
	}
	reg.MustRegister(m.eventsTotal, m.storeErrorsTotal, m.transitionsTotal)
	return m
}

// ObserveEvent counts one handled inbound event.
func (m *Metrics) ObserveEvent(role, kind string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(role, kind).Inc()
}

// ObserveStoreError counts one store failure seen by the engine.
func (m *Metrics) ObserveStoreError() {
	if m == nil {
		return
	}
	m.storeErrorsTotal.Inc()
}

// ObserveTransition counts one status-change attempt.
func (m *Metrics) ObserveTransition(event, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(event, outcome).Inc()
}
