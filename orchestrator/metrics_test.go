package orchestrator

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/session"
)

func TestSessionsGauge_TracksStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore(func(o *session.InMemoryOptions) { o.TTL = 0 })
	o := New(func(opts *Options) { opts.Sessions = store })

	reg := prometheus.NewRegistry()
	gauge := RegisterSessionsGauge(reg, store)

	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))

	first, err := o.CreateSession(ctx, "u1")
	require.NoError(t, err)
	second, err := o.CreateSession(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(gauge))

	require.NoError(t, o.RemoveSession(ctx, first))
	assert.Equal(t, 1.0, testutil.ToFloat64(gauge))

	// Removing an identifier that never existed must not skew the count.
	require.NoError(t, o.RemoveSession(ctx, "ghost"))
	assert.Equal(t, 1.0, testutil.ToFloat64(gauge))

	// Evictions bypass the orchestrator entirely; the gauge still follows.
	require.NoError(t, store.Delete(ctx, second))
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge))
}

type uncountableStore struct{}

func (uncountableStore) Create(context.Context, *core.Context) error { return nil }
func (uncountableStore) Get(context.Context, string) (*core.Context, error) {
	return nil, core.ErrUnknownSession
}
func (uncountableStore) Save(context.Context, *core.Context) error { return nil }
func (uncountableStore) Delete(context.Context, string) error      { return nil }
func (uncountableStore) Len(context.Context) (int, error)          { return -1, nil }

func TestSessionsGauge_UncountableStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	gauge := RegisterSessionsGauge(reg, uncountableStore{})

	assert.True(t, math.IsNaN(testutil.ToFloat64(gauge)))
}
