// Package redis provides a Redis-backed session Store with per-key TTL, for
// deployments that need sessions to survive process restarts or to be shared
// across replicas. Contexts are stored as JSON blobs; Redis expiry replaces
// the in-memory sweeper.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/leadmesh/core"
)

const keyPrefix = "leadmesh:session:"

// Store persists session contexts in Redis. Unlike the in-memory store, Get
// returns a deserialized copy, so mutations must be persisted with Save.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New constructs a Store on an existing client. ttl <= 0 stores sessions
// without expiry.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create stores a fresh context under its session identifier.
func (s *Store) Create(ctx context.Context, convo *core.Context) error {
	return s.Save(ctx, convo)
}

// Get loads and deserializes the context for a session identifier.
func (s *Store) Get(ctx context.Context, sessionID string) (*core.Context, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("session %s: %w", sessionID, core.ErrUnknownSession)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var convo core.Context
	if err := json.Unmarshal(data, &convo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &convo, nil
}

// Save serializes and stores the context, refreshing the TTL.
func (s *Store) Save(ctx context.Context, convo *core.Context) error {
	data, err := json.Marshal(convo)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+convo.SessionID, data, s.expiry()).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Len is not cheaply known for Redis; returns -1.
func (s *Store) Len(_ context.Context) (int, error) { return -1, nil }

func (s *Store) expiry() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return s.ttl
}
