package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aretw0/noyes/pkg/domain"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnRunStart(ctx, &domain.RunEvent{QuestionnaireID: "q1"})
	hooks.OnNodeVisit(ctx, &domain.VisitEvent{QuestionnaireID: "q1", NodeID: "ask", NodeKind: domain.NodeKindQuestion})
	hooks.OnNodeVisit(ctx, &domain.VisitEvent{QuestionnaireID: "q1", NodeID: "ask", NodeKind: domain.NodeKindQuestion})
	hooks.OnRunComplete(ctx, &domain.RunEvent{QuestionnaireID: "q1", Steps: 4})

	if got := testutil.ToFloat64(m.RunsStarted.WithLabelValues("q1")); got != 1 {
		t.Errorf("runs started = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.NodeVisits.WithLabelValues("q1", "ask", "question")); got != 2 {
		t.Errorf("node visits = %v, want 2 (revisits counted)", got)
	}
	if got := testutil.ToFloat64(m.RunsCompleted.WithLabelValues("q1")); got != 1 {
		t.Errorf("runs completed = %v, want 1", got)
	}
}
