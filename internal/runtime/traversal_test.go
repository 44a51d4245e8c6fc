package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/domain"
)

func question(id string) *domain.Node {
	return &domain.Node{ID: id, QuestionnaireID: "q1", Kind: domain.NodeKindQuestion}
}

func edge(src, dst, answer string) domain.Edge {
	return domain.Edge{QuestionnaireID: "q1", Source: src, Destination: dst, Answer: answer}
}

func TestStep_ResolvesAnswer(t *testing.T) {
	node := question("start")
	edges := []domain.Edge{
		edge("start", "happy", domain.AnswerYes),
		edge("start", "sad", domain.AnswerNo),
	}

	dst, err := Step(node, edges, domain.AnswerNo)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if dst != "sad" {
		t.Errorf("expected 'sad', got %q", dst)
	}
}

func TestStep_Deterministic(t *testing.T) {
	node := question("start")
	edges := []domain.Edge{
		edge("start", "happy", domain.AnswerYes),
		edge("start", "sad", domain.AnswerNo),
	}

	for i := 0; i < 10; i++ {
		dst, err := Step(node, edges, domain.AnswerYes)
		if err != nil || dst != "happy" {
			t.Fatalf("iteration %d: got (%q, %v), want (happy, nil)", i, dst, err)
		}
	}
}

func TestStep_AlreadyTerminal(t *testing.T) {
	node := &domain.Node{ID: "end", QuestionnaireID: "q1", Kind: domain.NodeKindTerminal}

	_, err := Step(node, nil, domain.AnswerYes)
	if !errors.Is(err, domain.ErrAlreadyTerminal) {
		t.Errorf("expected ErrAlreadyTerminal, got %v", err)
	}
}

func TestStep_InvalidAnswer(t *testing.T) {
	node := question("start")
	edges := []domain.Edge{
		edge("start", "happy", domain.AnswerYes),
		edge("start", "sad", domain.AnswerNo),
	}

	_, err := Step(node, edges, "maybe")
	if !errors.Is(err, domain.ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}

	var invalid *domain.InvalidAnswerError
	if !errors.As(err, &invalid) {
		t.Fatal("expected *InvalidAnswerError")
	}
	if invalid.Got != "maybe" {
		t.Errorf("Got = %q, want maybe", invalid.Got)
	}
	if len(invalid.Expected) != 2 {
		t.Errorf("Expected = %v, want yes/no", invalid.Expected)
	}
}

func TestStep_MalformedGraph(t *testing.T) {
	node := question("start")

	// Answer is acceptable for the kind, but no edge carries it: the
	// invariant is broken and the engine must refuse to guess.
	_, err := Step(node, nil, domain.AnswerYes)
	if !errors.Is(err, domain.ErrMalformedGraph) {
		t.Errorf("zero matches: expected ErrMalformedGraph, got %v", err)
	}

	// Duplicate labels are equally malformed.
	dup := []domain.Edge{
		edge("start", "a", domain.AnswerYes),
		edge("start", "b", domain.AnswerYes),
	}
	_, err = Step(node, dup, domain.AnswerYes)
	if !errors.Is(err, domain.ErrMalformedGraph) {
		t.Errorf("duplicate matches: expected ErrMalformedGraph, got %v", err)
	}
}

func TestStep_SelfLoop(t *testing.T) {
	node := &domain.Node{ID: "again", QuestionnaireID: "q1", Kind: domain.NodeKindStatement}
	edges := []domain.Edge{edge("again", "again", domain.AnswerNext)}

	dst, err := Step(node, edges, domain.AnswerNext)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if dst != "again" {
		t.Errorf("self-loop should resolve to itself, got %q", dst)
	}
}

func TestEngine_Advance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGraph()

	_ = store.PutQuestionnaire(ctx, &domain.Questionnaire{ID: "q1", Slug: "q1"})
	_ = store.PutNode(ctx, question("start"))
	_ = store.PutNode(ctx, &domain.Node{ID: "end", QuestionnaireID: "q1", Kind: domain.NodeKindTerminal})
	_ = store.PutNode(ctx, &domain.Node{ID: "more", QuestionnaireID: "q1", Kind: domain.NodeKindStatement})
	e1, e2 := edge("start", "more", domain.AnswerYes), edge("start", "end", domain.AnswerNo)
	_ = store.PutEdge(ctx, &e1)
	_ = store.PutEdge(ctx, &e2)

	engine := NewEngine(store)

	next, err := engine.Advance(ctx, "q1", "start", domain.AnswerNo)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.ID != "end" || !next.Terminal() {
		t.Errorf("expected terminal 'end', got %+v", next)
	}

	_, err = engine.Advance(ctx, "q1", "missing", domain.AnswerYes)
	if !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestEngine_Advance_DanglingDestination(t *testing.T) {
	ctx := context.Background()
	store := memory.NewGraph()

	_ = store.PutQuestionnaire(ctx, &domain.Questionnaire{ID: "q1", Slug: "q1"})
	_ = store.PutNode(ctx, &domain.Node{ID: "s1", QuestionnaireID: "q1", Kind: domain.NodeKindStatement})
	e := edge("s1", "ghost", domain.AnswerNext)
	_ = store.PutEdge(ctx, &e)

	engine := NewEngine(store)

	_, err := engine.Advance(ctx, "q1", "s1", domain.AnswerNext)
	if !errors.Is(err, domain.ErrMalformedGraph) {
		t.Errorf("dangling destination must be MalformedGraph, got %v", err)
	}
}
