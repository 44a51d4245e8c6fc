package ports

import (
	"context"

	"github.com/aretw0/noyes/pkg/domain"
)

// GraphStore defines how the engine reads and writes questionnaire
// graphs. It is pure data access: mutations only write, they do not
// check cross-node consistency. Structural validation is the
// validator's job, invoked by the authoring layer before publication.
//
// Lookups return domain.ErrQuestionnaireNotFound or
// domain.ErrNodeNotFound when the referenced entity does not exist.
type GraphStore interface {
	// GetQuestionnaire retrieves a questionnaire by ID.
	GetQuestionnaire(ctx context.Context, id string) (*domain.Questionnaire, error)

	// GetQuestionnaireBySlug retrieves a questionnaire by its slug.
	GetQuestionnaireBySlug(ctx context.Context, slug string) (*domain.Questionnaire, error)

	// PutQuestionnaire inserts or replaces a questionnaire record.
	PutQuestionnaire(ctx context.Context, q *domain.Questionnaire) error

	// DeleteQuestionnaire removes a questionnaire and all of its nodes
	// and edges. It does not check for referencing runs; that guard
	// belongs to the authoring layer.
	DeleteQuestionnaire(ctx context.Context, id string) error

	// GetNode retrieves a node by its questionnaire-scoped ID.
	GetNode(ctx context.Context, questionnaireID, nodeID string) (*domain.Node, error)

	// ListNodes returns all nodes of a questionnaire in stable (ID) order.
	ListNodes(ctx context.Context, questionnaireID string) ([]domain.Node, error)

	// PutNode inserts or replaces a node.
	PutNode(ctx context.Context, n *domain.Node) error

	// DeleteNode removes a node and every edge touching it, as source
	// or destination.
	DeleteNode(ctx context.Context, questionnaireID, nodeID string) error

	// OutgoingEdges returns the edges leaving a node. The set is
	// unordered; uniqueness per answer label is enforced by the
	// validator, not assumed here.
	OutgoingEdges(ctx context.Context, questionnaireID, nodeID string) ([]domain.Edge, error)

	// ListEdges returns all edges of a questionnaire.
	ListEdges(ctx context.Context, questionnaireID string) ([]domain.Edge, error)

	// PutEdge inserts or replaces the edge for (source, answer).
	PutEdge(ctx context.Context, e *domain.Edge) error

	// DeleteEdge removes the edge identified by (source, answer).
	DeleteEdge(ctx context.Context, questionnaireID, source, answer string) error
}
