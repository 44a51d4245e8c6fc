// Package runtime implements the single-step transition function of a
// questionnaire's implicit state machine.
//
// Traversal is deliberately history-unaware: resolving a transition is
// a pure function of the current node's edge set and the answer label.
// Loop and rejoin bookkeeping belongs to the session manager.
package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
)

// Step resolves the destination node ID for leaving node with answer,
// given the node's outgoing edges.
//
// Failure modes:
//   - domain.ErrAlreadyTerminal when node is a terminal.
//   - *domain.InvalidAnswerError when the label is not one the node's
//     kind accepts (stale client, typo).
//   - domain.ErrMalformedGraph when the label is acceptable but the
//     edge set violates the validated invariant: zero or duplicate
//     edges carry it. The engine never guesses a branch.
func Step(node *domain.Node, edges []domain.Edge, answer string) (string, error) {
	if node.Terminal() {
		return "", domain.ErrAlreadyTerminal
	}

	expected := domain.ExpectedAnswers(node.Kind)
	if expected == nil {
		return "", fmt.Errorf("%w: node %q has unknown kind %q", domain.ErrMalformedGraph, node.ID, node.Kind)
	}

	accepted := false
	for _, label := range expected {
		if label == answer {
			accepted = true
			break
		}
	}
	if !accepted {
		return "", &domain.InvalidAnswerError{NodeID: node.ID, Got: answer, Expected: expected}
	}

	var destination string
	matches := 0
	for _, e := range edges {
		if e.Answer == answer {
			destination = e.Destination
			matches++
		}
	}

	switch matches {
	case 1:
		return destination, nil
	case 0:
		return "", fmt.Errorf("%w: node %q has no edge labeled %q", domain.ErrMalformedGraph, node.ID, answer)
	default:
		return "", fmt.Errorf("%w: node %q has %d edges labeled %q", domain.ErrMalformedGraph, node.ID, matches, answer)
	}
}

// Engine resolves transitions against a persisted graph.
type Engine struct {
	store ports.GraphStore
}

// NewEngine creates a traversal engine reading from the given store.
func NewEngine(store ports.GraphStore) *Engine {
	return &Engine{store: store}
}

// Advance loads the current node and its edges, resolves the
// transition for answer, and returns the destination node. A
// destination that no longer exists is a data-integrity defect and
// surfaces as ErrMalformedGraph, never as NotFound.
func (e *Engine) Advance(ctx context.Context, questionnaireID, nodeID, answer string) (*domain.Node, error) {
	node, err := e.store.GetNode(ctx, questionnaireID, nodeID)
	if err != nil {
		return nil, err
	}

	edges, err := e.store.OutgoingEdges(ctx, questionnaireID, nodeID)
	if err != nil {
		return nil, err
	}

	destination, err := Step(node, edges, answer)
	if err != nil {
		return nil, err
	}

	next, err := e.store.GetNode(ctx, questionnaireID, destination)
	if err != nil {
		if err == domain.ErrNodeNotFound {
			return nil, fmt.Errorf("%w: edge %q -> %q points to missing node",
				domain.ErrMalformedGraph, nodeID, destination)
		}
		return nil, err
	}
	return next, nil
}
