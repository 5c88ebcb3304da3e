package session

import (
	"context"

	"github.com/hupe1980/leadmesh/core"
)

// Store persists session contexts. Exactly one Context exists per session
// identifier at any time; Get must return core.ErrUnknownSession for unknown
// identifiers rather than creating lazily, because session creation is an
// explicit orchestrator operation.
type Store interface {
	// Create stores a fresh context under its session identifier.
	Create(ctx context.Context, convo *core.Context) error
	// Get returns the context for a session identifier or core.ErrUnknownSession.
	Get(ctx context.Context, sessionID string) (*core.Context, error)
	// Save persists the current state of a context. In-memory backends may
	// treat this as a no-op since callers mutate the stored pointer.
	Save(ctx context.Context, convo *core.Context) error
	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
	// Len reports the number of live sessions where the backend can know it
	// cheaply; backends that cannot return a negative value.
	Len(ctx context.Context) (int, error)
}
