package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/noyes/internal/logging"
	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu     sync.Mutex
	refs   int
	unlock ports.UnlockFunc // releases the distributed lock (if any)
}

// ResolveFunc maps (questionnaireID, currentNodeID, answer) to the
// next node. Injected so the manager stays traversal-unaware.
type ResolveFunc func(ctx context.Context, questionnaireID, nodeID, answer string) (*domain.Node, error)

// Manager orchestrates run access, ensuring safe concurrent mutation.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.RunStore

	mu    sync.Mutex            // global lock for the map
	locks map[string]*lockEntry // map of active locks

	locker ports.DistributedLocker // optional distributed locker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across engine replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a run manager backed by the given store.
func NewManager(store ports.RunStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference
// count. The caller MUST Lock entry.mu and call release(key) after
// unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry when it
// reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return // should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"run_id", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// StartRun creates an open run positioned on the entry node. The entry
// visit is the run's first history step, with no answer chosen yet.
func (m *Manager) StartRun(ctx context.Context, q *domain.Questionnaire, identity domain.Identity, entry *domain.Node) (*domain.Run, error) {
	if entry.QuestionnaireID != q.ID {
		return nil, domain.ErrCrossQuestionnaire
	}

	run := domain.NewRun(uuid.NewString(), q, identity, entry, time.Now().UTC())

	// Persist immediately to reserve the ID.
	err := m.WithLock(ctx, run.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, run)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run: %w", err)
	}
	return run, nil
}

// GetOrCreateActive returns the participant's most recent open run for
// the questionnaire, or starts a new one. The second return reports
// whether a fresh run was minted. The lookup and the create are
// serialized per (questionnaire, identity) so a double request cannot
// mint two runs.
func (m *Manager) GetOrCreateActive(ctx context.Context, q *domain.Questionnaire, identity domain.Identity, entry *domain.Node) (*domain.Run, bool, error) {
	var (
		run     *domain.Run
		created bool
	)
	key := "active:" + q.ID + ":" + identity.UserID + ":" + identity.SessionKey
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		existing, err := m.store.FindOpen(ctx, q.ID, identity)
		if err == nil {
			run = existing
			return nil
		}
		if err != domain.ErrRunNotFound {
			return fmt.Errorf("failed to check for open run: %w", err)
		}
		run, err = m.StartRun(ctx, q, identity, entry)
		created = err == nil
		return err
	})
	return run, created, err
}

// Load retrieves an existing run from the store.
func (m *Manager) Load(ctx context.Context, runID string) (*domain.Run, error) {
	var run *domain.Run
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		run, err = m.store.Load(ctx, runID)
		return err
	})
	return run, err
}

// RecordStep appends (answer, next) to the run's history under the
// run's lock. The caller has already resolved the transition.
//
// The append is unconditional with respect to revisits: a node already
// present in the history is appended again as a new step. The run
// closes the moment a terminal node is appended; recording into a
// closed run fails with domain.ErrRunClosed.
func (m *Manager) RecordStep(ctx context.Context, runID, answer string, next *domain.Node) (*domain.Run, error) {
	var run *domain.Run
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		run, err = m.store.Load(ctx, runID)
		if err != nil {
			return err
		}
		if err := appendStep(run, answer, next); err != nil {
			return err
		}
		return m.store.Save(ctx, run)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Submit resolves and records one answer atomically: the run's current
// node is read, resolved via resolve, and the destination appended,
// all under the run's lock. A concurrent duplicate submission is
// serialized behind the first and then sees the advanced run, so a
// stale answer fails with an invalid-answer or closed-run error
// instead of forking the history.
func (m *Manager) Submit(ctx context.Context, runID, answer string, resolve ResolveFunc) (*domain.Run, *domain.Node, error) {
	var (
		run  *domain.Run
		next *domain.Node
	)
	err := m.WithLock(ctx, runID, func(ctx context.Context) error {
		var err error
		run, err = m.store.Load(ctx, runID)
		if err != nil {
			return err
		}
		if run.Complete {
			return domain.ErrRunClosed
		}

		next, err = resolve(ctx, run.QuestionnaireID, run.CurrentNodeID(), answer)
		if err != nil {
			return err
		}
		if err := appendStep(run, answer, next); err != nil {
			return err
		}
		return m.store.Save(ctx, run)
	})
	if err != nil {
		return nil, nil, err
	}
	return run, next, nil
}

// History returns the run's visited steps in visit order, repeats
// included. Only nodes actually traversed appear, never the full
// graph.
func (m *Manager) History(ctx context.Context, runID string) ([]domain.Step, error) {
	run, err := m.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	return run.Steps, nil
}

// Delete removes the run from the store.
func (m *Manager) Delete(ctx context.Context, runID string) error {
	return m.WithLock(ctx, runID, func(ctx context.Context) error {
		return m.store.Delete(ctx, runID)
	})
}

// Store returns the underlying run store.
func (m *Manager) Store() ports.RunStore {
	return m.store
}

// appendStep backfills the answer on the step being left, then appends
// the destination visit. Closes the run when the destination is
// terminal. Caller holds the run lock.
func appendStep(run *domain.Run, answer string, next *domain.Node) error {
	if run.Complete {
		return domain.ErrRunClosed
	}
	if next.QuestionnaireID != run.QuestionnaireID {
		return domain.ErrCrossQuestionnaire
	}

	now := time.Now().UTC()

	if current := run.CurrentStep(); current != nil {
		current.Answer = answer
	}
	run.Steps = append(run.Steps, domain.Step{
		NodeID:    next.ID,
		NodeKind:  next.Kind,
		Order:     len(run.Steps) + 1,
		VisitedAt: now,
	})

	if next.Terminal() {
		run.Complete = true
		run.CompletedAt = &now
	}
	return nil
}
