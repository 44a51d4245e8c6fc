package memory

import (
	"context"
	"sync"

	"github.com/aretw0/noyes/pkg/domain"
)

// RunStore implements ports.RunStore in memory.
// Safe for concurrent use.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.Run
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*domain.Run),
	}
}

// copyRun clones a run including its step log, so store state and
// caller state stay isolated.
func copyRun(r *domain.Run) *domain.Run {
	copied := *r
	copied.Steps = make([]domain.Step, len(r.Steps))
	copy(copied.Steps, r.Steps)
	if r.CompletedAt != nil {
		at := *r.CompletedAt
		copied.CompletedAt = &at
	}
	return &copied
}

// Save persists the run in memory.
func (s *RunStore) Save(ctx context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = copyRun(run)
	return nil
}

// Load retrieves a run by ID.
func (s *RunStore) Load(ctx context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return copyRun(run), nil
}

// Delete removes a run.
func (s *RunStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

// List returns all stored run IDs.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids, nil
}

// FindOpen returns the most recently started open run for the
// (questionnaire, identity) pair.
func (s *RunStore) FindOpen(ctx context.Context, questionnaireID string, identity domain.Identity) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Run
	for _, run := range s.runs {
		if run.Complete || run.QuestionnaireID != questionnaireID {
			continue
		}
		if run.Identity != identity {
			continue
		}
		if latest == nil || run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, domain.ErrRunNotFound
	}
	return copyRun(latest), nil
}

// CountOpen returns the number of open runs for a questionnaire.
func (s *RunStore) CountOpen(ctx context.Context, questionnaireID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, run := range s.runs {
		if !run.Complete && run.QuestionnaireID == questionnaireID {
			count++
		}
	}
	return count, nil
}
