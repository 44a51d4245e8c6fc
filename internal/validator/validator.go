// Package validator decides whether a node, or an entire
// questionnaire, is structurally navigable. Validation is idempotent
// and side-effect-free: it only reads the graph.
//
// Cycles and rejoins are legal by design and are never reported. The
// validator only cares about edge shape, dangling references and the
// presence of an entry node.
package validator

import (
	"context"
	"fmt"

	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
)

// Reason enumerates the structural defects a graph can carry.
type Reason string

const (
	ReasonMissingYesEdge   Reason = "missing_yes_edge"
	ReasonMissingNoEdge    Reason = "missing_no_edge"
	ReasonMissingNextEdge  Reason = "missing_next_edge"
	ReasonExtraEdge        Reason = "extra_edge"
	ReasonWrongAnswerLabel Reason = "wrong_answer_label"
	ReasonTerminalHasEdges Reason = "terminal_has_edges"
	ReasonUnknownNodeKind  Reason = "unknown_node_kind"
	ReasonDanglingEdge     Reason = "dangling_edge"
	ReasonNoEntryNode      Reason = "no_entry_node"
)

// NodeError reports a single structural defect, attributed to a node
// when one is involved.
type NodeError struct {
	NodeID string
	Reason Reason
	Detail string
}

func (e *NodeError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("node %q: %s", e.NodeID, e.Reason)
	}
	return fmt.Sprintf("node %q: %s (%s)", e.NodeID, e.Reason, e.Detail)
}

// AggregateError collects every defect found in one validation pass,
// so authors can fix them all at once instead of replaying one by one.
type AggregateError struct {
	Errors []*NodeError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d graph errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Reasons returns all node errors if err is an AggregateError,
// otherwise nil.
func Reasons(err error) []*NodeError {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}

// ValidateNode checks the node-kind invariant for a single node given
// its outgoing edges:
//
//	question  -> exactly one YES and one NO edge, nothing else
//	statement -> exactly one NEXT edge, nothing else
//	terminal  -> no outgoing edges
//
// It returns every defect found, or nil when the node is well-formed.
func ValidateNode(node *domain.Node, edges []domain.Edge) []*NodeError {
	var errs []*NodeError

	fail := func(reason Reason, detail string) {
		errs = append(errs, &NodeError{NodeID: node.ID, Reason: reason, Detail: detail})
	}

	if node.Kind == domain.NodeKindTerminal {
		if len(edges) > 0 {
			fail(ReasonTerminalHasEdges, fmt.Sprintf("%d outgoing edges", len(edges)))
		}
		return errs
	}

	expected := domain.ExpectedAnswers(node.Kind)
	if expected == nil {
		fail(ReasonUnknownNodeKind, node.Kind)
		return errs
	}

	counts := make(map[string]int, len(edges))
	for _, e := range edges {
		counts[e.Answer]++
	}

	for _, answer := range expected {
		switch {
		case counts[answer] == 0:
			switch answer {
			case domain.AnswerYes:
				fail(ReasonMissingYesEdge, "")
			case domain.AnswerNo:
				fail(ReasonMissingNoEdge, "")
			default:
				fail(ReasonMissingNextEdge, "")
			}
		case counts[answer] > 1:
			fail(ReasonExtraEdge, fmt.Sprintf("%d edges labeled %q", counts[answer], answer))
		}
		delete(counts, answer)
	}

	// Whatever remains carries a label this kind does not accept.
	for answer := range counts {
		fail(ReasonWrongAnswerLabel, fmt.Sprintf("unexpected label %q", answer))
	}

	return errs
}

// ValidateQuestionnaire validates every node of a questionnaire,
// checks that all edge endpoints resolve within the questionnaire, and
// that an entry node is designated. Returns nil or an *AggregateError.
func ValidateQuestionnaire(ctx context.Context, store ports.GraphStore, q *domain.Questionnaire) error {
	var errs []*NodeError

	nodes, err := store.ListNodes(ctx, q.ID)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	if q.StartNodeID == "" {
		errs = append(errs, &NodeError{Reason: ReasonNoEntryNode, Detail: "no start node designated"})
	} else if !known[q.StartNodeID] {
		errs = append(errs, &NodeError{Reason: ReasonNoEntryNode,
			Detail: fmt.Sprintf("start node %q does not exist", q.StartNodeID)})
	}

	for i := range nodes {
		edges, err := store.OutgoingEdges(ctx, q.ID, nodes[i].ID)
		if err != nil {
			return err
		}
		errs = append(errs, ValidateNode(&nodes[i], edges)...)
	}

	// Dangling detection covers edges whose endpoints were deleted
	// after the edge was written.
	edges, err := store.ListEdges(ctx, q.ID)
	if err != nil {
		return err
	}
	for _, e := range edges {
		if !known[e.Source] {
			errs = append(errs, &NodeError{NodeID: e.Source, Reason: ReasonDanglingEdge,
				Detail: fmt.Sprintf("edge %q leaves a missing node", e.Answer)})
		}
		if !known[e.Destination] {
			errs = append(errs, &NodeError{NodeID: e.Source, Reason: ReasonDanglingEdge,
				Detail: fmt.Sprintf("edge %q points to missing node %q", e.Answer, e.Destination)})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
