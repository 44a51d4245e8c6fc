package ports

import (
	"context"

	"github.com/aretw0/noyes/pkg/domain"
)

// RunStore defines the interface for persisting run state. This allows
// durable, resumable walks: a participant can leave and come back.
type RunStore interface {
	// Save persists the run, keyed by run ID.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Run, error)

	// Delete removes a run.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of all stored runs.
	List(ctx context.Context) ([]string, error)

	// FindOpen returns the most recently started open run for the
	// (questionnaire, identity) pair, or domain.ErrRunNotFound.
	FindOpen(ctx context.Context, questionnaireID string, identity domain.Identity) (*domain.Run, error)

	// CountOpen returns the number of open runs referencing a
	// questionnaire. Used to refuse deleting questionnaires in use.
	CountOpen(ctx context.Context, questionnaireID string) (int, error)
}
