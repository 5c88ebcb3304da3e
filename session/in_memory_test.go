package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/leadmesh/core"
)

func TestInMemoryStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.TTL = 0 })

	convo := core.NewContext("s1", "u1")
	require.NoError(t, store.Create(ctx, convo))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, convo, got, "in-memory store hands out the live pointer")

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrUnknownSession)
}

func TestInMemoryStore_GetUnknown(t *testing.T) {
	store := NewInMemoryStore(func(o *InMemoryOptions) { o.TTL = 0 })

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrUnknownSession)
}

func TestInMemoryStore_SweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(func(o *InMemoryOptions) {
		o.TTL = 10 * time.Millisecond
		o.SweepInterval = 0 // sweep manually below
	})

	idle := core.NewContext("idle", "")
	require.NoError(t, store.Create(ctx, idle))

	time.Sleep(20 * time.Millisecond)

	fresh := core.NewContext("fresh", "")
	require.NoError(t, store.Create(ctx, fresh))
	fresh.SetState("k", "v")

	store.sweep()

	_, err := store.Get(ctx, "idle")
	assert.ErrorIs(t, err, core.ErrUnknownSession)

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}
