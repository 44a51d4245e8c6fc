package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noyes/internal/runtime"
	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/session"
)

// loopGraph builds: ask --yes--> again --next--> ask (cycle),
// ask --no--> done (terminal). Returns the graph store and nodes.
func loopGraph(t *testing.T) (*memory.Graph, *domain.Questionnaire, map[string]*domain.Node) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewGraph()

	q := &domain.Questionnaire{ID: "q1", Slug: "loop", StartNodeID: "ask"}
	require.NoError(t, store.PutQuestionnaire(ctx, q))

	nodes := map[string]*domain.Node{
		"ask":   {ID: "ask", QuestionnaireID: "q1", Kind: domain.NodeKindQuestion, Content: "Again?"},
		"again": {ID: "again", QuestionnaireID: "q1", Kind: domain.NodeKindStatement, Content: "One more time."},
		"done":  {ID: "done", QuestionnaireID: "q1", Kind: domain.NodeKindTerminal, Content: "Bye."},
	}
	for _, n := range nodes {
		require.NoError(t, store.PutNode(ctx, n))
	}
	edges := []domain.Edge{
		{QuestionnaireID: "q1", Source: "ask", Destination: "again", Answer: domain.AnswerYes},
		{QuestionnaireID: "q1", Source: "ask", Destination: "done", Answer: domain.AnswerNo},
		{QuestionnaireID: "q1", Source: "again", Destination: "ask", Answer: domain.AnswerNext},
	}
	for i := range edges {
		require.NoError(t, store.PutEdge(ctx, &edges[i]))
	}
	return store, q, nodes
}

func TestManager_StartRun(t *testing.T) {
	_, q, nodes := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())
	ctx := context.Background()

	run, err := mgr.StartRun(ctx, q, domain.Identity{SessionKey: "s1"}, nodes["ask"])
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.Complete)
	require.Len(t, run.Steps, 1)
	assert.Equal(t, "ask", run.Steps[0].NodeID)
	assert.Empty(t, run.Steps[0].Answer, "entry visit has no answer yet")
	assert.Equal(t, 1, run.Steps[0].Order)
}

func TestManager_StartRun_CrossQuestionnaire(t *testing.T) {
	_, q, _ := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())

	alien := &domain.Node{ID: "x", QuestionnaireID: "other", Kind: domain.NodeKindStatement}
	_, err := mgr.StartRun(context.Background(), q, domain.Identity{SessionKey: "s1"}, alien)
	assert.ErrorIs(t, err, domain.ErrCrossQuestionnaire)
}

func TestManager_RecordStep_LoopFidelity(t *testing.T) {
	_, q, nodes := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())
	ctx := context.Background()

	run, err := mgr.StartRun(ctx, q, domain.Identity{SessionKey: "s1"}, nodes["ask"])
	require.NoError(t, err)

	// ask -yes-> again -next-> ask -no-> done
	_, err = mgr.RecordStep(ctx, run.ID, domain.AnswerYes, nodes["again"])
	require.NoError(t, err)
	_, err = mgr.RecordStep(ctx, run.ID, domain.AnswerNext, nodes["ask"])
	require.NoError(t, err)
	final, err := mgr.RecordStep(ctx, run.ID, domain.AnswerNo, nodes["done"])
	require.NoError(t, err)

	assert.True(t, final.Complete)
	require.NotNil(t, final.CompletedAt)

	// Revisits are recorded as repeats, never deduplicated.
	assert.Equal(t, []string{"ask", "again", "ask", "done"}, final.Path())

	// Answers are backfilled onto the step being left.
	assert.Equal(t, domain.AnswerYes, final.Steps[0].Answer)
	assert.Equal(t, domain.AnswerNext, final.Steps[1].Answer)
	assert.Equal(t, domain.AnswerNo, final.Steps[2].Answer)
	assert.Empty(t, final.Steps[3].Answer, "terminal step has no answer")

	// Orders are dense and 1-based.
	for i, s := range final.Steps {
		assert.Equal(t, i+1, s.Order)
	}
}

func TestManager_RecordStep_ClosedRun(t *testing.T) {
	_, q, nodes := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())
	ctx := context.Background()

	run, err := mgr.StartRun(ctx, q, domain.Identity{SessionKey: "s1"}, nodes["ask"])
	require.NoError(t, err)

	_, err = mgr.RecordStep(ctx, run.ID, domain.AnswerNo, nodes["done"])
	require.NoError(t, err)

	_, err = mgr.RecordStep(ctx, run.ID, domain.AnswerNext, nodes["again"])
	assert.ErrorIs(t, err, domain.ErrRunClosed)
}

func TestManager_History(t *testing.T) {
	_, q, nodes := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())
	ctx := context.Background()

	run, err := mgr.StartRun(ctx, q, domain.Identity{UserID: "u1"}, nodes["ask"])
	require.NoError(t, err)
	_, err = mgr.RecordStep(ctx, run.ID, domain.AnswerNo, nodes["done"])
	require.NoError(t, err)

	steps, err := mgr.History(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "ask", steps[0].NodeID)
	assert.Equal(t, "done", steps[1].NodeID)

	_, err = mgr.History(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestManager_GetOrCreateActive(t *testing.T) {
	_, q, nodes := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())
	ctx := context.Background()
	identity := domain.Identity{SessionKey: "s1"}

	first, created, err := mgr.GetOrCreateActive(ctx, q, identity, nodes["ask"])
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := mgr.GetOrCreateActive(ctx, q, identity, nodes["ask"])
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID, "open run must be resumed, not duplicated")

	// Closing the run makes the next call mint a fresh one.
	_, err = mgr.RecordStep(ctx, first.ID, domain.AnswerNo, nodes["done"])
	require.NoError(t, err)

	third, created, err := mgr.GetOrCreateActive(ctx, q, identity, nodes["ask"])
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestManager_Submit_ConcurrentAnswers(t *testing.T) {
	graph, q, nodes := loopGraph(t)
	mgr := session.NewManager(memory.NewRunStore())
	engine := runtime.NewEngine(graph)
	ctx := context.Background()

	run, err := mgr.StartRun(ctx, q, domain.Identity{SessionKey: "s1"}, nodes["ask"])
	require.NoError(t, err)

	// Two racing submissions: YES leads to "again" (open), NO leads to
	// "done" (closed). Exactly one must win; the loser must see the
	// advanced run and fail cleanly, never fork the history.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, answer := range []string{domain.AnswerYes, domain.AnswerNo} {
		wg.Add(1)
		go func(answer string) {
			defer wg.Done()
			_, _, err := mgr.Submit(ctx, run.ID, answer, engine.Advance)
			results <- err
		}(answer)
	}
	wg.Wait()
	close(results)

	var failures int
	for err := range results {
		if err != nil {
			failures++
		}
	}
	// YES then NO: both succeed ("again" does not accept NO... but the
	// run sits on "again" after YES, so NO fails InvalidAnswer).
	// NO then YES: NO closes the run, YES fails ErrRunClosed.
	// Either way at most one failure and never two successes that fork.
	assert.LessOrEqual(t, failures, 1)

	final, err := mgr.Load(ctx, run.ID)
	require.NoError(t, err)

	// The history must be a single coherent path: each step's order is
	// dense, and no two steps share an order index.
	for i, s := range final.Steps {
		assert.Equal(t, i+1, s.Order, "history forked at step %d", i)
	}
}
