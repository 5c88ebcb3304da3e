package core

import (
	"sync"
	"time"
)

// Context represents a conversational session tracking mutable key/value
// state plus an ordered, append-only message history. It is safe for
// concurrent access.
//
// Contract:
//   - SessionID never changes after construction
//   - History only grows; AppendMessage is the sole mutation path
//   - Messages returns a defensive copy to avoid external mutation
//   - State/metadata mutations update the Updated timestamp
//   - Clone performs deep copies of maps/slices for safe divergence.
type Context struct {
	SessionID string         `json:"session_id"`
	UserID    string         `json:"user_id,omitempty"`
	History   []Message      `json:"history"`
	State     map[string]any `json:"state"`
	Metadata  map[string]any `json:"metadata"`
	Created   time.Time      `json:"created"`
	Updated   time.Time      `json:"updated"`
	mu        sync.RWMutex
}

// NewContext creates an empty session context. userID may be empty for
// anonymous sessions.
func NewContext(sessionID, userID string) *Context {
	now := time.Now().UTC()
	return &Context{
		SessionID: sessionID,
		UserID:    userID,
		History:   []Message{},
		State:     map[string]any{},
		Metadata:  map[string]any{},
		Created:   now,
		Updated:   now,
	}
}

// AppendMessage appends a message to the conversation history updating the
// Updated timestamp. Messages are stored by value; the history never shrinks
// or reorders.
func (c *Context) AppendMessage(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.History = append(c.History, msg)
	c.Updated = time.Now().UTC()
}

// Messages returns a copy of the full history slice to prevent callers from
// mutating internal state.
func (c *Context) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msgs := make([]Message, len(c.History))
	copy(msgs, c.History)
	return msgs
}

// HistoryLen returns the number of messages in the conversation history.
func (c *Context) HistoryLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.History)
}

// LastMessage returns the most recent message and true, or a zero Message
// and false for an empty history.
func (c *Context) LastMessage() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.History) == 0 {
		return Message{}, false
	}
	return c.History[len(c.History)-1], true
}

// GetState returns the value and existence flag for a state key.
func (c *Context) GetState(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.State[key]
	return v, ok
}

// SetState sets a key/value pair in session state updating the Updated timestamp.
func (c *Context) SetState(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.State[key] = value
	c.Updated = time.Now().UTC()
}

// SetMetadata sets a session metadata entry.
func (c *Context) SetMetadata(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Metadata[key] = value
	c.Updated = time.Now().UTC()
}

// LastUpdated returns the time of the most recent mutation. Used by stores
// for TTL-based eviction.
func (c *Context) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Updated
}

// Clone returns a deep copy of the context safe for independent mutation.
func (c *Context) Clone() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Context{
		SessionID: c.SessionID,
		UserID:    c.UserID,
		History:   make([]Message, len(c.History)),
		State:     make(map[string]any, len(c.State)),
		Metadata:  make(map[string]any, len(c.Metadata)),
		Created:   c.Created,
		Updated:   c.Updated,
	}
	copy(clone.History, c.History)
	for k, v := range c.State {
		clone.State[k] = v
	}
	for k, v := range c.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
