package dsl

import "github.com/aretw0/noyes/pkg/domain"

// NodeBuilder configures one node and its outgoing edges.
type NodeBuilder struct {
	node    domain.Node
	edges   []domain.Edge
	builder *Builder
}

// Question marks the node as a yes/no question with the given content.
func (nb *NodeBuilder) Question(content string) *NodeBuilder {
	nb.node.Kind = domain.NodeKindQuestion
	nb.node.Content = content
	return nb
}

// Statement marks the node as a pass-through statement.
func (nb *NodeBuilder) Statement(content string) *NodeBuilder {
	nb.node.Kind = domain.NodeKindStatement
	nb.node.Content = content
	return nb
}

// Terminal marks the node as a run-ending terminal.
func (nb *NodeBuilder) Terminal(content string) *NodeBuilder {
	nb.node.Kind = domain.NodeKindTerminal
	nb.node.Content = content
	return nb
}

// Meta attaches a metadata key-value pair.
func (nb *NodeBuilder) Meta(key, value string) *NodeBuilder {
	if nb.node.Metadata == nil {
		nb.node.Metadata = make(map[string]string)
	}
	nb.node.Metadata[key] = value
	return nb
}

// Start designates this node as the questionnaire's entry node.
func (nb *NodeBuilder) Start() *NodeBuilder {
	nb.builder.questionnaire.StartNodeID = nb.node.ID
	return nb
}

// Answer adds an outgoing edge with an arbitrary label. Labels are an
// open set; the validator decides which labels a kind accepts.
func (nb *NodeBuilder) Answer(label, destination string) *NodeBuilder {
	nb.edges = append(nb.edges, domain.Edge{
		QuestionnaireID: nb.node.QuestionnaireID,
		Source:          nb.node.ID,
		Destination:     destination,
		Answer:          label,
	})
	return nb
}

// Yes adds the YES edge of a question.
func (nb *NodeBuilder) Yes(destination string) *NodeBuilder {
	return nb.Answer(domain.AnswerYes, destination)
}

// No adds the NO edge of a question.
func (nb *NodeBuilder) No(destination string) *NodeBuilder {
	return nb.Answer(domain.AnswerNo, destination)
}

// Next adds the NEXT edge of a statement.
func (nb *NodeBuilder) Next(destination string) *NodeBuilder {
	return nb.Answer(domain.AnswerNext, destination)
}
