package noyes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/noyes/internal/logging"
	"github.com/aretw0/noyes/internal/runtime"
	"github.com/aretw0/noyes/internal/validator"
	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
	"github.com/aretw0/noyes/pkg/session"
)

// Engine is the high-level entry point for the noyes library. It wraps
// the traversal runtime, the validator and the run manager behind one
// API for callers (HTTP handlers, the CLI player, tests).
type Engine struct {
	graph     ports.GraphStore
	runStore  ports.RunStore
	locker    ports.DistributedLocker
	runs      *session.Manager
	traversal *runtime.Engine
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRunStore injects a custom run store (default: in-memory).
func WithRunStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.runStore = store
	}
}

// WithLocker enables distributed run locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine over the given graph store.
func New(graph ports.GraphStore, opts ...Option) *Engine {
	e := &Engine{
		graph:  graph,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.runStore == nil {
		e.runStore = memory.NewRunStore()
	}

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.runs = session.NewManager(e.runStore, sessionOpts...)
	e.traversal = runtime.NewEngine(graph)

	return e
}

// Graph returns the underlying graph store.
func (e *Engine) Graph() ports.GraphStore {
	return e.graph
}

// Runs returns the underlying run manager.
func (e *Engine) Runs() *session.Manager {
	return e.runs
}

// Validate checks the structural navigability of a questionnaire:
// node-kind edge shapes, dangling edges, entry node presence. Cycles
// and rejoins are not errors. The call is idempotent and read-only.
func (e *Engine) Validate(ctx context.Context, questionnaireID string) error {
	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return err
	}
	return validator.ValidateQuestionnaire(ctx, e.graph, q)
}

// Advance resolves the single-step transition from a node given an
// answer label. It is a pure read: no run history is consulted or
// written. See internal/runtime for the failure modes.
func (e *Engine) Advance(ctx context.Context, questionnaireID, nodeID, answer string) (*domain.Node, error) {
	return e.traversal.Advance(ctx, questionnaireID, nodeID, answer)
}

// StartRun begins a run at the questionnaire's designated start node.
func (e *Engine) StartRun(ctx context.Context, questionnaireID string, identity domain.Identity) (*domain.Run, error) {
	q, entry, err := e.entryNode(ctx, questionnaireID, identity)
	if err != nil {
		return nil, err
	}

	run, err := e.runs.StartRun(ctx, q, identity, entry)
	if err != nil {
		return nil, err
	}

	e.logger.Info("run started",
		"run_id", run.ID,
		"questionnaire", q.Slug,
		"entry", entry.ID,
	)
	e.fireRunStart(ctx, run)
	e.fireVisit(ctx, run, entry, "")
	if run.Complete {
		// Entry directly on a terminal closes the run immediately.
		e.fireRunComplete(ctx, run)
	}
	return run, nil
}

// ResumeRun returns the participant's most recent open run for the
// questionnaire, starting a fresh one when none exists.
func (e *Engine) ResumeRun(ctx context.Context, questionnaireID string, identity domain.Identity) (*domain.Run, error) {
	q, entry, err := e.entryNode(ctx, questionnaireID, identity)
	if err != nil {
		return nil, err
	}

	run, created, err := e.runs.GetOrCreateActive(ctx, q, identity, entry)
	if err != nil {
		return nil, err
	}
	if created {
		e.fireRunStart(ctx, run)
		e.fireVisit(ctx, run, entry, "")
		if run.Complete {
			e.fireRunComplete(ctx, run)
		}
	}
	return run, nil
}

// Answer applies one answer to an open run: the current node is
// resolved, the transition taken, and the destination appended to the
// history, all under the run's lock. Concurrent submissions on the
// same run serialize; the loser observes the advanced run and fails
// with an invalid-answer or closed-run error.
func (e *Engine) Answer(ctx context.Context, runID, answer string) (*domain.Run, *domain.Node, error) {
	run, next, err := e.runs.Submit(ctx, runID, answer, e.traversal.Advance)
	if err != nil {
		return nil, nil, err
	}

	e.logger.Info("answer recorded",
		"run_id", run.ID,
		"answer", answer,
		"node", next.ID,
		"complete", run.Complete,
	)
	e.fireVisit(ctx, run, next, answer)
	if run.Complete {
		e.fireRunComplete(ctx, run)
	}
	return run, next, nil
}

// History returns the run's visited steps in visit order, repeats
// included.
func (e *Engine) History(ctx context.Context, runID string) ([]domain.Step, error) {
	return e.runs.History(ctx, runID)
}

// CurrentNode loads the node a run is sitting on, for rendering.
func (e *Engine) CurrentNode(ctx context.Context, runID string) (*domain.Node, error) {
	run, err := e.runs.Load(ctx, runID)
	if err != nil {
		return nil, err
	}
	return e.graph.GetNode(ctx, run.QuestionnaireID, run.CurrentNodeID())
}

// entryNode resolves the questionnaire and its entry node, enforcing
// the navigability rules for the identity.
func (e *Engine) entryNode(ctx context.Context, questionnaireID string, identity domain.Identity) (*domain.Questionnaire, *domain.Node, error) {
	if identity.Zero() {
		return nil, nil, domain.ErrIdentityRequired
	}

	q, err := e.graph.GetQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, nil, err
	}
	if !q.Navigable(identity) {
		return nil, nil, domain.ErrNotNavigable
	}
	if q.StartNodeID == "" {
		return nil, nil, domain.ErrNoEntryNode
	}

	entry, err := e.graph.GetNode(ctx, q.ID, q.StartNodeID)
	if err != nil {
		return nil, nil, err
	}
	return q, entry, nil
}

func (e *Engine) fireRunStart(ctx context.Context, run *domain.Run) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		EventBase:       domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunStart, RunID: run.ID},
		QuestionnaireID: run.QuestionnaireID,
		Steps:           len(run.Steps),
	})
}

func (e *Engine) fireVisit(ctx context.Context, run *domain.Run, node *domain.Node, answer string) {
	if e.hooks.OnNodeVisit == nil {
		return
	}
	e.hooks.OnNodeVisit(ctx, &domain.VisitEvent{
		EventBase:       domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeVisit, RunID: run.ID},
		QuestionnaireID: run.QuestionnaireID,
		NodeID:          node.ID,
		NodeKind:        node.Kind,
		Answer:          answer,
	})
}

func (e *Engine) fireRunComplete(ctx context.Context, run *domain.Run) {
	if e.hooks.OnRunComplete == nil {
		return
	}
	e.hooks.OnRunComplete(ctx, &domain.RunEvent{
		EventBase:       domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunComplete, RunID: run.ID},
		QuestionnaireID: run.QuestionnaireID,
		Steps:           len(run.Steps),
	})
}
