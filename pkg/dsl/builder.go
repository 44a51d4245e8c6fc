package dsl

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/domain"
)

// Builder manages the graph construction for one questionnaire.
type Builder struct {
	questionnaire domain.Questionnaire
	nodes         map[string]*NodeBuilder
	order         []string // preserves Add order for deterministic Build
}

// New creates a builder for a questionnaire identified by slug.
func New(slug string) *Builder {
	return &Builder{
		questionnaire: domain.Questionnaire{
			ID:     slug,
			Slug:   slug,
			Title:  slug,
			Access: domain.AccessDraft,
		},
		nodes: make(map[string]*NodeBuilder),
	}
}

// Title sets the display title.
func (b *Builder) Title(title string) *Builder {
	b.questionnaire.Title = title
	return b
}

// Owner sets the owning identity.
func (b *Builder) Owner(ownerID string) *Builder {
	b.questionnaire.OwnerID = ownerID
	return b
}

// Access sets the access type (defaults to draft).
func (b *Builder) Access(access string) *Builder {
	b.questionnaire.Access = access
	return b
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:              id,
			QuestionnaireID: b.questionnaire.ID,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the graph into a populated memory store. The first
// added node becomes the start node unless one was marked explicitly.
func (b *Builder) Build(ctx context.Context) (*memory.Graph, *domain.Questionnaire, error) {
	if len(b.order) == 0 {
		return nil, nil, fmt.Errorf("graph has no nodes")
	}

	q := b.questionnaire
	if q.StartNodeID == "" {
		q.StartNodeID = b.order[0]
	}
	now := time.Now().UTC()
	q.CreatedAt, q.UpdatedAt = now, now

	store := memory.NewGraph()
	if err := store.PutQuestionnaire(ctx, &q); err != nil {
		return nil, nil, err
	}

	for _, id := range b.order {
		nb := b.nodes[id]
		if nb.node.Kind == "" {
			return nil, nil, fmt.Errorf("node %q has no kind (call Question, Statement or Terminal)", id)
		}
		if err := store.PutNode(ctx, &nb.node); err != nil {
			return nil, nil, err
		}
		for i := range nb.edges {
			if err := store.PutEdge(ctx, &nb.edges[i]); err != nil {
				return nil, nil, err
			}
		}
	}

	return store, &q, nil
}
