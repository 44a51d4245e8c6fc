package noyes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/noyes/pkg/domain"
)

// nodeSlugMaxLen bounds node IDs derived from content.
const nodeSlugMaxLen = 50

// CreateQuestionnaire registers a new draft questionnaire owned by
// ownerID. The slug is derived from the title and suffixed until
// unique. Drafts are navigable only by their owner until Activate.
func (e *Engine) CreateQuestionnaire(ctx context.Context, title, description, ownerID string) (*domain.Questionnaire, error) {
	slug := domain.UniqueSlug(title, "questionnaire", func(candidate string) bool {
		_, err := e.graph.GetQuestionnaireBySlug(ctx, candidate)
		return err == nil
	})

	now := time.Now()
	q := &domain.Questionnaire{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		Access:      domain.AccessDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.graph.PutQuestionnaire(ctx, q); err != nil {
		return nil, err
	}

	e.logger.Info("questionnaire created", "id", q.ID, "slug", q.Slug)
	return q, nil
}

// UpdateQuestionnaire rewrites the title and description. The slug is
// stable: renaming a questionnaire never breaks existing links.
func (e *Engine) UpdateQuestionnaire(ctx context.Context, questionnaireID, title, description string) (*domain.Questionnaire, error) {
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	q.Title = title
	q.Description = description
	q.UpdatedAt = time.Now()
	if err := e.graph.PutQuestionnaire(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// AddNode creates a node in the questionnaire. Its ID is a slug
// derived from the content, truncated and suffixed until unique within
// the questionnaire. The first node added becomes the entry node
// unless one is already set.
func (e *Engine) AddNode(ctx context.Context, questionnaireID, kind, content string, metadata map[string]string) (*domain.Node, error) {
	if !domain.ValidKind(kind) {
		return nil, domain.ErrUnknownKind
	}
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	existing, err := e.graph.ListNodes(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, n := range existing {
		taken[n.ID] = true
	}

	base := domain.Slugify(content)
	if len(base) > nodeSlugMaxLen {
		base = strings.TrimRight(base[:nodeSlugMaxLen], "-")
	}
	id := domain.UniqueSlug(base, kind, func(candidate string) bool {
		return taken[candidate]
	})

	node := &domain.Node{
		ID:              id,
		QuestionnaireID: questionnaireID,
		Kind:            kind,
		Content:         content,
		Metadata:        metadata,
	}
	if err := e.graph.PutNode(ctx, node); err != nil {
		return nil, err
	}

	if q.StartNodeID == "" {
		q.StartNodeID = node.ID
		q.UpdatedAt = time.Now()
		if err := e.graph.PutQuestionnaire(ctx, q); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// UpdateNode rewrites a node's content and metadata in place. The ID
// stays what it was: edges keep pointing at it.
func (e *Engine) UpdateNode(ctx context.Context, questionnaireID, nodeID, content string, metadata map[string]string) (*domain.Node, error) {
	node, err := e.graph.GetNode(ctx, questionnaireID, nodeID)
	if err != nil {
		return nil, err
	}
	node.Content = content
	node.Metadata = metadata
	if err := e.graph.PutNode(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// RemoveNode deletes a node and every edge touching it. If the node
// was the entry node, the questionnaire is left without one and must
// be repointed before it can be walked again.
func (e *Engine) RemoveNode(ctx context.Context, questionnaireID, nodeID string) error {
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return err
	}
	if err := e.graph.DeleteNode(ctx, questionnaireID, nodeID); err != nil {
		return err
	}
	if q.StartNodeID == nodeID {
		q.StartNodeID = ""
		q.UpdatedAt = time.Now()
		return e.graph.PutQuestionnaire(ctx, q)
	}
	return nil
}

// AddEdge connects source to destination under an answer label.
// Both endpoints must already exist in the questionnaire; an edge can
// never point outside it or at a node that was never created. Writing
// the same (source, answer) pair again retargets the edge.
func (e *Engine) AddEdge(ctx context.Context, questionnaireID, source, answer, destination string) (*domain.Edge, error) {
	if _, err := e.graph.GetNode(ctx, questionnaireID, source); err != nil {
		return nil, err
	}
	if _, err := e.graph.GetNode(ctx, questionnaireID, destination); err != nil {
		return nil, err
	}

	edge := &domain.Edge{
		QuestionnaireID: questionnaireID,
		Source:          source,
		Destination:     destination,
		Answer:          answer,
	}
	if err := e.graph.PutEdge(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// RemoveEdge deletes the edge identified by (source, answer).
func (e *Engine) RemoveEdge(ctx context.Context, questionnaireID, source, answer string) error {
	return e.graph.DeleteEdge(ctx, questionnaireID, source, answer)
}

// SetStartNode designates the questionnaire's entry node. The node
// must exist; the engine never infers an entry from graph shape.
func (e *Engine) SetStartNode(ctx context.Context, questionnaireID, nodeID string) error {
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return err
	}
	if _, err := e.graph.GetNode(ctx, questionnaireID, nodeID); err != nil {
		return err
	}
	q.StartNodeID = nodeID
	q.UpdatedAt = time.Now()
	return e.graph.PutQuestionnaire(ctx, q)
}

// Activate publishes a questionnaire under the given access type.
// The graph is validated first: a structurally broken questionnaire
// never leaves the draft state. Use Deactivate to return to draft.
func (e *Engine) Activate(ctx context.Context, questionnaireID, access string) error {
	if !domain.ValidAccess(access) || access == domain.AccessDraft {
		return domain.ErrUnknownAccess
	}
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return err
	}
	if err := e.Validate(ctx, questionnaireID); err != nil {
		return err
	}
	q.Access = access
	q.UpdatedAt = time.Now()
	if err := e.graph.PutQuestionnaire(ctx, q); err != nil {
		return err
	}

	e.logger.Info("questionnaire activated", "id", q.ID, "slug", q.Slug, "access", access)
	return nil
}

// Deactivate returns a questionnaire to the draft state. Open runs are
// untouched: closing a door does not evict people already inside.
func (e *Engine) Deactivate(ctx context.Context, questionnaireID string) error {
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return err
	}
	q.Access = domain.AccessDraft
	q.UpdatedAt = time.Now()
	return e.graph.PutQuestionnaire(ctx, q)
}

// DeleteQuestionnaire removes a questionnaire with all of its nodes
// and edges. Refused with ErrQuestionnaireInUse while open runs still
// reference it.
func (e *Engine) DeleteQuestionnaire(ctx context.Context, questionnaireID string) error {
	if _, err := e.graph.GetQuestionnaire(ctx, questionnaireID); err != nil {
		return err
	}
	open, err := e.runStore.CountOpen(ctx, questionnaireID)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.ErrQuestionnaireInUse
	}

	if err := e.graph.DeleteQuestionnaire(ctx, questionnaireID); err != nil {
		return err
	}
	e.logger.Info("questionnaire deleted", "id", questionnaireID)
	return nil
}
