package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noyes/pkg/domain"
)

// RunGraphStoreContract runs a suite of tests verifying that a
// GraphStore implementation adheres to the interface contract.
func RunGraphStoreContract(t *testing.T, store GraphStore) {
	ctx := context.Background()
	now := time.Now().UTC()

	q := &domain.Questionnaire{
		ID:        "q-contract",
		Slug:      "contract",
		Title:     "Contract",
		OwnerID:   "owner-1",
		Access:    domain.AccessDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("Questionnaire CRUD", func(t *testing.T) {
		require.NoError(t, store.PutQuestionnaire(ctx, q))

		got, err := store.GetQuestionnaire(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Title, got.Title)

		bySlug, err := store.GetQuestionnaireBySlug(ctx, q.Slug)
		require.NoError(t, err)
		assert.Equal(t, q.ID, bySlug.ID)

		_, err = store.GetQuestionnaire(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrQuestionnaireNotFound)
	})

	t.Run("Node CRUD", func(t *testing.T) {
		n := &domain.Node{ID: "start", QuestionnaireID: q.ID, Kind: domain.NodeKindStatement, Content: "hello"}
		require.NoError(t, store.PutNode(ctx, n))

		got, err := store.GetNode(ctx, q.ID, "start")
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Content)

		_, err = store.GetNode(ctx, q.ID, "missing")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)

		nodes, err := store.ListNodes(ctx, q.ID)
		require.NoError(t, err)
		assert.Len(t, nodes, 1)
	})

	t.Run("Edge CRUD and cascade", func(t *testing.T) {
		end := &domain.Node{ID: "end", QuestionnaireID: q.ID, Kind: domain.NodeKindTerminal}
		require.NoError(t, store.PutNode(ctx, end))

		e := &domain.Edge{QuestionnaireID: q.ID, Source: "start", Destination: "end", Answer: domain.AnswerNext}
		require.NoError(t, store.PutEdge(ctx, e))

		edges, err := store.OutgoingEdges(ctx, q.ID, "start")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "end", edges[0].Destination)

		// Replacing the (source, answer) pair must not duplicate.
		e2 := &domain.Edge{QuestionnaireID: q.ID, Source: "start", Destination: "start", Answer: domain.AnswerNext}
		require.NoError(t, store.PutEdge(ctx, e2))
		edges, err = store.OutgoingEdges(ctx, q.ID, "start")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "start", edges[0].Destination)

		// Deleting a node removes edges touching it.
		require.NoError(t, store.PutEdge(ctx, e))
		require.NoError(t, store.DeleteNode(ctx, q.ID, "end"))
		edges, err = store.OutgoingEdges(ctx, q.ID, "start")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("Delete questionnaire cascades", func(t *testing.T) {
		require.NoError(t, store.DeleteQuestionnaire(ctx, q.ID))

		_, err := store.GetQuestionnaire(ctx, q.ID)
		assert.ErrorIs(t, err, domain.ErrQuestionnaireNotFound)

		_, err = store.GetNode(ctx, q.ID, "start")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
}

// RunRunStoreContract runs a suite of tests verifying that a RunStore
// implementation adheres to the interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	now := time.Now().UTC()

	q := &domain.Questionnaire{ID: "q-runs", Slug: "runs", OwnerID: "owner-1"}
	entry := &domain.Node{ID: "start", QuestionnaireID: q.ID, Kind: domain.NodeKindStatement}
	identity := domain.Identity{SessionKey: "sess-" + now.Format("20060102150405")}

	t.Run("Save and Load", func(t *testing.T) {
		run := domain.NewRun("run-1", q, identity, entry, now)
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, run.QuestionnaireID, loaded.QuestionnaireID)
		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, "start", loaded.Steps[0].NodeID)
		assert.False(t, loaded.Complete)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "run-missing")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("FindOpen and CountOpen", func(t *testing.T) {
		open, err := store.FindOpen(ctx, q.ID, identity)
		require.NoError(t, err)
		assert.Equal(t, "run-1", open.ID)

		count, err := store.CountOpen(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		_, err = store.FindOpen(ctx, q.ID, domain.Identity{SessionKey: "other"})
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Closed runs are not open", func(t *testing.T) {
		run, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		run.Complete = true
		require.NoError(t, store.Save(ctx, run))

		_, err = store.FindOpen(ctx, q.ID, identity)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "run-1"))
		_, err := store.Load(ctx, "run-1")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		r1 := domain.NewRun("run-list-1", q, identity, entry, now)
		r2 := domain.NewRun("run-list-2", q, identity, entry, now)
		require.NoError(t, store.Save(ctx, r1))
		require.NoError(t, store.Save(ctx, r2))
		defer func() {
			_ = store.Delete(ctx, r1.ID)
			_ = store.Delete(ctx, r2.ID)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, r1.ID)
		assert.Contains(t, ids, r2.ID)
	})
}
