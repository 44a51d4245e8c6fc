package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/noyes/pkg/domain"
)

// edgeKey identifies an edge within a questionnaire: one edge per
// (source, answer) pair.
type edgeKey struct {
	source string
	answer string
}

// Graph implements ports.GraphStore in memory.
// Safe for concurrent use.
type Graph struct {
	mu             sync.RWMutex
	questionnaires map[string]*domain.Questionnaire
	nodes          map[string]map[string]*domain.Node // questionnaireID -> nodeID -> node
	edges          map[string]map[edgeKey]*domain.Edge
}

// NewGraph creates an empty in-memory graph store.
func NewGraph() *Graph {
	return &Graph{
		questionnaires: make(map[string]*domain.Questionnaire),
		nodes:          make(map[string]map[string]*domain.Node),
		edges:          make(map[string]map[edgeKey]*domain.Edge),
	}
}

// GetQuestionnaire retrieves a questionnaire by ID.
func (g *Graph) GetQuestionnaire(ctx context.Context, id string) (*domain.Questionnaire, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	q, ok := g.questionnaires[id]
	if !ok {
		return nil, domain.ErrQuestionnaireNotFound
	}
	// Copy on read so callers can't mutate store state by pointer.
	ret := *q
	return &ret, nil
}

// GetQuestionnaireBySlug retrieves a questionnaire by slug.
func (g *Graph) GetQuestionnaireBySlug(ctx context.Context, slug string) (*domain.Questionnaire, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, q := range g.questionnaires {
		if q.Slug == slug {
			ret := *q
			return &ret, nil
		}
	}
	return nil, domain.ErrQuestionnaireNotFound
}

// PutQuestionnaire inserts or replaces a questionnaire record.
func (g *Graph) PutQuestionnaire(ctx context.Context, q *domain.Questionnaire) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	copied := *q
	g.questionnaires[q.ID] = &copied
	if g.nodes[q.ID] == nil {
		g.nodes[q.ID] = make(map[string]*domain.Node)
		g.edges[q.ID] = make(map[edgeKey]*domain.Edge)
	}
	return nil
}

// DeleteQuestionnaire removes a questionnaire with all nodes and edges.
func (g *Graph) DeleteQuestionnaire(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.questionnaires, id)
	delete(g.nodes, id)
	delete(g.edges, id)
	return nil
}

// GetNode retrieves a node by its questionnaire-scoped ID.
func (g *Graph) GetNode(ctx context.Context, questionnaireID, nodeID string) (*domain.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[questionnaireID][nodeID]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	ret := *n
	return &ret, nil
}

// ListNodes returns all nodes of a questionnaire sorted by ID.
func (g *Graph) ListNodes(ctx context.Context, questionnaireID string) ([]domain.Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]domain.Node, 0, len(g.nodes[questionnaireID]))
	for _, n := range g.nodes[questionnaireID] {
		nodes = append(nodes, *n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

// PutNode inserts or replaces a node.
func (g *Graph) PutNode(ctx context.Context, n *domain.Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.nodes[n.QuestionnaireID] == nil {
		g.nodes[n.QuestionnaireID] = make(map[string]*domain.Node)
		g.edges[n.QuestionnaireID] = make(map[edgeKey]*domain.Edge)
	}
	copied := *n
	g.nodes[n.QuestionnaireID][n.ID] = &copied
	return nil
}

// DeleteNode removes a node and every edge touching it.
func (g *Graph) DeleteNode(ctx context.Context, questionnaireID, nodeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.nodes[questionnaireID], nodeID)
	for key, e := range g.edges[questionnaireID] {
		if e.Source == nodeID || e.Destination == nodeID {
			delete(g.edges[questionnaireID], key)
		}
	}
	return nil
}

// OutgoingEdges returns the edges leaving a node.
func (g *Graph) OutgoingEdges(ctx context.Context, questionnaireID, nodeID string) ([]domain.Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var edges []domain.Edge
	for _, e := range g.edges[questionnaireID] {
		if e.Source == nodeID {
			edges = append(edges, *e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Answer < edges[j].Answer })
	return edges, nil
}

// ListEdges returns all edges of a questionnaire.
func (g *Graph) ListEdges(ctx context.Context, questionnaireID string) ([]domain.Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]domain.Edge, 0, len(g.edges[questionnaireID]))
	for _, e := range g.edges[questionnaireID] {
		edges = append(edges, *e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Answer < edges[j].Answer
	})
	return edges, nil
}

// PutEdge inserts or replaces the edge for (source, answer).
func (g *Graph) PutEdge(ctx context.Context, e *domain.Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.edges[e.QuestionnaireID] == nil {
		g.edges[e.QuestionnaireID] = make(map[edgeKey]*domain.Edge)
	}
	copied := *e
	g.edges[e.QuestionnaireID][edgeKey{e.Source, e.Answer}] = &copied
	return nil
}

// DeleteEdge removes the edge identified by (source, answer).
func (g *Graph) DeleteEdge(ctx context.Context, questionnaireID, source, answer string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.edges[questionnaireID], edgeKey{source, answer})
	return nil
}
