package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noyes/pkg/adapters/memory"
	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
)

func TestRunStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, memory.NewRunStore())
}

func TestRunStore_Isolation(t *testing.T) {
	store := memory.NewRunStore()
	ctx := context.Background()

	q := &domain.Questionnaire{ID: "q1"}
	entry := &domain.Node{ID: "start", QuestionnaireID: "q1", Kind: domain.NodeKindStatement}
	run := domain.NewRun("r1", q, domain.Identity{SessionKey: "s"}, entry, time.Now())
	require.NoError(t, store.Save(ctx, run))

	// Mutating the caller's copy after Save must not leak into the store.
	run.Steps = append(run.Steps, domain.Step{NodeID: "rogue", Order: 2})

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, loaded.Steps, 1)

	// Mutating a loaded copy must not leak either.
	loaded.Steps[0].NodeID = "tampered"
	again, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "start", again.Steps[0].NodeID)
}
