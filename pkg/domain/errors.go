package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Not-found errors. Surfaced to the caller as-is, never retried internally.
var (
	// ErrQuestionnaireNotFound is returned when a questionnaire ID or slug cannot be resolved.
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	// ErrNodeNotFound is returned when a node ID cannot be resolved within its questionnaire.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned when an edge (source, answer) pair cannot be resolved.
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrRunNotFound is returned when a run ID cannot be found in the store.
	ErrRunNotFound = errors.New("run not found")
)

// Traversal and bookkeeping errors. All are terminal for the failing
// call; no retry succeeds without a state or data change.
var (
	// ErrAlreadyTerminal is returned when advancing from a terminal node.
	ErrAlreadyTerminal = errors.New("node is terminal, no advance possible")
	// ErrInvalidAnswer is the category sentinel wrapped by InvalidAnswerError.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrMalformedGraph is returned when traversal hits an invariant the
	// validator should have caught (missing or duplicated labeled edge,
	// dangling destination). It signals a data-integrity defect; the
	// engine never picks a branch by guessing.
	ErrMalformedGraph = errors.New("malformed graph")
	// ErrRunClosed is returned when mutating a run that already reached a terminal.
	ErrRunClosed = errors.New("run already closed")
)

// Authoring errors.
var (
	// ErrCrossQuestionnaire is returned when an edge or run references
	// nodes outside its own questionnaire. Rejected at write time.
	ErrCrossQuestionnaire = errors.New("nodes belong to different questionnaires")
	// ErrQuestionnaireInUse is returned when deleting a questionnaire
	// that still has open runs referencing it.
	ErrQuestionnaireInUse = errors.New("questionnaire has open runs")
	// ErrNotNavigable is returned when an identity may not walk a questionnaire.
	ErrNotNavigable = errors.New("questionnaire is not navigable for this identity")
	// ErrDuplicateSlug is returned when a slug is already taken.
	ErrDuplicateSlug = errors.New("slug already exists")
	// ErrUnknownKind is returned when a node kind names no known kind.
	ErrUnknownKind = errors.New("unknown node kind")
	// ErrUnknownAccess is returned when an access value names no known access type.
	ErrUnknownAccess = errors.New("unknown access type")
	// ErrNoEntryNode is returned when a run is started on a
	// questionnaire without a designated start node.
	ErrNoEntryNode = errors.New("questionnaire has no entry node")
	// ErrIdentityRequired is returned when a run is started without a
	// user ID or session key.
	ErrIdentityRequired = errors.New("run requires a participant identity")
)

// InvalidAnswerError reports an answer label that matches no outgoing
// edge of the current node. Expected carries the labels the node does
// offer so the caller can resynchronize stale clients.
type InvalidAnswerError struct {
	NodeID   string
	Got      string
	Expected []string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer %q for node %q (expected one of: %s)",
		e.Got, e.NodeID, strings.Join(e.Expected, ", "))
}

// Unwrap ties the structured error to the ErrInvalidAnswer sentinel so
// callers can match with errors.Is.
func (e *InvalidAnswerError) Unwrap() error {
	return ErrInvalidAnswer
}
