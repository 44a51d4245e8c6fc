// Package observability exposes Prometheus collectors fed by the
// engine's lifecycle hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/noyes/pkg/domain"
)

// Metrics bundles the engine's Prometheus collectors.
type Metrics struct {
	RunsStarted   *prometheus.CounterVec
	RunsCompleted *prometheus.CounterVec
	NodeVisits    *prometheus.CounterVec
	RunLength     prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "noyes_runs_started_total",
				Help: "Total number of runs started",
			},
			[]string{"questionnaire"},
		),
		RunsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "noyes_runs_completed_total",
				Help: "Total number of runs that reached a terminal node",
			},
			[]string{"questionnaire"},
		),
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "noyes_node_visits_total",
				Help: "Total number of node visits, revisits included",
			},
			[]string{"questionnaire", "node_id", "node_kind"},
		),
		RunLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "noyes_run_length_steps",
				Help:    "Number of steps in completed runs",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
	reg.MustRegister(m.RunsStarted, m.RunsCompleted, m.NodeVisits, m.RunLength)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.RunsStarted.WithLabelValues(e.QuestionnaireID).Inc()
		},
		OnNodeVisit: func(_ context.Context, e *domain.VisitEvent) {
			m.NodeVisits.WithLabelValues(e.QuestionnaireID, e.NodeID, e.NodeKind).Inc()
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			m.RunsCompleted.WithLabelValues(e.QuestionnaireID).Inc()
			m.RunLength.Observe(float64(e.Steps))
		},
	}
}
