package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
)

// InMemoryStore is a volatile Store implementation keeping contexts in a
// process local map. It is safe for concurrent access and best suited for
// single-process deployments, tests and demos.
//
// Eviction: sessions idle longer than TTL are removed by a periodic sweep
// started with StartSweeper. A TTL of zero disables eviction entirely, which
// reproduces the unbounded-growth behavior callers must then manage
// themselves.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Context

	ttl    time.Duration
	logger logging.Logger

	sweepCancel context.CancelFunc
	sweepDone   chan struct{}
}

// InMemoryOptions configures an InMemoryStore.
type InMemoryOptions struct {
	// TTL is the idle lifetime of a session; zero disables eviction.
	TTL time.Duration
	// SweepInterval is how often the sweeper scans for expired sessions.
	SweepInterval time.Duration
	// Logger for eviction events.
	Logger logging.Logger
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{
		TTL:           24 * time.Hour,
		SweepInterval: time.Minute,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	s := &InMemoryStore{
		sessions: make(map[string]*core.Context),
		ttl:      opts.TTL,
		logger:   opts.Logger,
	}
	if opts.TTL > 0 && opts.SweepInterval > 0 {
		s.startSweeper(opts.SweepInterval)
	}
	return s
}

// Create stores a fresh context. An existing session with the same
// identifier is overwritten; the orchestrator generates collision-resistant
// identifiers so this only matters for deliberate reuse in tests.
func (s *InMemoryStore) Create(_ context.Context, convo *core.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[convo.SessionID] = convo
	return nil
}

// Get returns the live context for a session identifier. Callers mutate the
// returned pointer directly; Context is internally synchronized.
func (s *InMemoryStore) Get(_ context.Context, sessionID string) (*core.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	convo, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, core.ErrUnknownSession)
	}
	return convo, nil
}

// Save is a no-op: Get hands out the stored pointer.
func (s *InMemoryStore) Save(_ context.Context, _ *core.Context) error { return nil }

// Delete removes a session.
func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// Close stops the eviction sweeper. Safe to call multiple times.
func (s *InMemoryStore) Close() {
	if s.sweepCancel != nil {
		s.sweepCancel()
		<-s.sweepDone
		s.sweepCancel = nil
	}
}

func (s *InMemoryStore) startSweeper(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.sweepCancel = cancel
	s.sweepDone = make(chan struct{})

	go func() {
		defer close(s.sweepDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// sweep removes sessions idle longer than the TTL.
func (s *InMemoryStore) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, convo := range s.sessions {
		if convo.LastUpdated().Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("session.evicted", "session_id", id)
		}
	}
}
