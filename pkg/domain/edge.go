package domain

// Answer labels form an open set: new node kinds (multiple choice,
// ratings) add labels without changing the traversal algorithm. The
// validator owns the per-kind arity rules.
const (
	AnswerYes  = "yes"
	AnswerNo   = "no"
	AnswerNext = "next"
)

// Edge is a directed, answer-labeled connection between two nodes of
// the same questionnaire. An edge is owned by its source node; at most
// one edge per (source, answer) pair may exist.
//
// Destination may be any node in the questionnaire, including the
// source itself (self-loop) or a node reachable by another path
// (rejoin). The graph is a general directed multigraph, not a tree.
type Edge struct {
	QuestionnaireID string `json:"questionnaire_id" yaml:"questionnaire_id"`
	Source          string `json:"source" yaml:"source"`
	Destination     string `json:"destination" yaml:"destination"`
	Answer          string `json:"answer" yaml:"answer"`
}
