package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind classifies the purpose of a Message.
type MessageKind string

const (
	// MessageKindText is a plain conversational message.
	MessageKindText MessageKind = "text"
	// MessageKindAction requests execution of a named agent action.
	MessageKindAction MessageKind = "action"
	// MessageKindRequest is a structured request awaiting correlation with a response.
	MessageKindRequest MessageKind = "request"
	// MessageKindResponse is the reply produced by an agent for an earlier message.
	MessageKindResponse MessageKind = "response"
)

// Message is the primary unit of communication between callers, the
// orchestrator and agents. After construction it must be treated as
// immutable: the ID is assigned exactly once and no field is ever mutated.
// Contexts store Messages by value so appended history can never be changed
// through a retained reference.
//
// Content carries the structured payload (for conversational messages the
// "text" key holds the user text); Metadata carries free-form annotations
// such as detected intents or error descriptions.
type Message struct {
	ID        string         `json:"id"`
	Sender    string         `json:"sender"`
	Receiver  string         `json:"receiver,omitempty"`
	Kind      MessageKind    `json:"kind"`
	Content   map[string]any `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewMessage creates a Message of the given kind with a freshly generated
// unique identifier and UTC timestamp. The content map is copied so the
// caller cannot mutate the message afterwards through the original map.
func NewMessage(kind MessageKind, sender, receiver string, content map[string]any) Message {
	return Message{
		ID:        NewID(),
		Sender:    sender,
		Receiver:  receiver,
		Kind:      kind,
		Content:   copyMap(content),
		Metadata:  map[string]any{},
		CreatedAt: time.Now().UTC(),
	}
}

// NewTextMessage creates a user-style text message. The text is stored under
// the "text" content key.
func NewTextMessage(sender, receiver, text string) Message {
	return NewMessage(MessageKindText, sender, receiver, map[string]any{"text": text})
}

// NewResponseMessage creates a response addressed back to the sender of the
// originating message. The metadata map is copied defensively.
func NewResponseMessage(sender, receiver string, content, metadata map[string]any) Message {
	m := NewMessage(MessageKindResponse, sender, receiver, content)
	m.Metadata = copyMap(metadata)
	return m
}

// Text returns the "text" content entry or "" if absent or not a string.
func (m Message) Text() string {
	if s, ok := m.Content["text"].(string); ok {
		return s
	}
	return ""
}

// WithMetadata returns a copy of the message with an additional metadata
// entry. The original message is left untouched.
func (m Message) WithMetadata(key string, value any) Message {
	md := copyMap(m.Metadata)
	md[key] = value
	m.Metadata = md
	return m
}

// NewID generates a new unique identifier for messages, sessions and agents.
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }

func copyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
