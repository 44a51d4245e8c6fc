package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/noyes/pkg/adapters/redis"
	"github.com/aretw0/noyes/pkg/domain"
	"github.com/aretw0/noyes/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunRunStoreContract(t, store)
}

func TestStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	q := &domain.Questionnaire{ID: "q1"}
	entry := &domain.Node{ID: "start", QuestionnaireID: "q1", Kind: domain.NodeKindStatement}
	run := domain.NewRun("run-ttl", q, domain.Identity{SessionKey: "s"}, entry, time.Now())

	require.NoError(t, store.Save(ctx, run))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "run-ttl")

	// Fast forward past the TTL so the key expires.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// Index pruning is lazy and keyed on wall-clock time, so wait out
	// the score horizon before asserting the listing is empty.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_KeyPrefix(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t), redis.WithPrefix("custom:"))
	ctx := context.Background()

	q := &domain.Questionnaire{ID: "q1"}
	entry := &domain.Node{ID: "start", QuestionnaireID: "q1", Kind: domain.NodeKindTerminal}
	run := domain.NewRun("run-prefix", q, domain.Identity{UserID: "u1"}, entry, time.Now())

	require.NoError(t, store.Save(ctx, run))

	loaded, err := store.Load(ctx, "run-prefix")
	require.NoError(t, err)
	assert.True(t, loaded.Complete, "entry on a terminal node closes the run immediately")
}
