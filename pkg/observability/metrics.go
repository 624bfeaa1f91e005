package observability

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for tally_evaluations_total.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the Prometheus collectors fed by engine events.
type Metrics struct {
	KeyPresses  *prometheus.CounterVec
	Evaluations *prometheus.CounterVec
	Restores    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		KeyPresses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_key_presses_total",
				Help: "Total number of key presses applied, by key class",
			},
			[]string{"class"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_evaluations_total",
				Help: "Total number of evaluations, by outcome",
			},
			[]string{"outcome"},
		),
		Restores: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tally_history_restores_total",
				Help: "Total number of history entries recalled",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.KeyPresses, m.Evaluations, m.Restores)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnKeyPress: func(ctx context.Context, e *domain.KeyEvent) {
			m.KeyPresses.WithLabelValues(string(e.Class)).Inc()
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			outcome := OutcomeOK
			if e.IsError {
				outcome = OutcomeError
			}
			m.Evaluations.WithLabelValues(outcome).Inc()
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			m.Restores.Inc()
		},
	}
}
