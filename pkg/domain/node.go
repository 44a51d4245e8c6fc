package domain

// NodeKind constants define the control flow behavior of a node.
const (
	// NodeKindQuestion displays content and waits for a YES/NO answer (hard step).
	NodeKindQuestion = "question"
	// NodeKindStatement displays content and continues via NEXT (soft step).
	NodeKindStatement = "statement"
	// NodeKindTerminal ends the run. It has no outgoing edges.
	NodeKindTerminal = "terminal"
)

// Node represents a single vertex in a questionnaire graph.
type Node struct {
	// ID is the node slug, unique within its questionnaire.
	ID string `json:"id" yaml:"id"`

	// QuestionnaireID scopes the node. Edges never cross this boundary.
	QuestionnaireID string `json:"questionnaire_id" yaml:"questionnaire_id"`

	Kind string `json:"kind" yaml:"kind"` // "question", "statement", "terminal"

	// Content holds the raw payload for this node (typically markdown).
	// The engine never interprets it; rendering is the caller's concern.
	Content string `json:"content" yaml:"content"`

	// Metadata allows for extensible key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Terminal reports whether the node ends a run.
func (n *Node) Terminal() bool {
	return n.Kind == NodeKindTerminal
}

// ExpectedAnswers returns the answer labels a node of this kind must
// offer, in a stable order. Terminals expect none.
func ExpectedAnswers(kind string) []string {
	switch kind {
	case NodeKindQuestion:
		return []string{AnswerYes, AnswerNo}
	case NodeKindStatement:
		return []string{AnswerNext}
	default:
		return nil
	}
}

// ValidKind reports whether kind names a known node kind.
func ValidKind(kind string) bool {
	switch kind {
	case NodeKindQuestion, NodeKindStatement, NodeKindTerminal:
		return true
	}
	return false
}
