package core

import "testing"

func TestNewMessage_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		m := NewTextMessage("u", "", "hi")
		if seen[m.ID] {
			t.Fatalf("duplicate message id %s", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestNewMessage_CopiesContent(t *testing.T) {
	content := map[string]any{"text": "hello"}
	m := NewMessage(MessageKindText, "u", "", content)

	content["text"] = "mutated"
	if m.Text() != "hello" {
		t.Errorf("message content should be copied at construction, got %q", m.Text())
	}
}

func TestMessage_WithMetadata(t *testing.T) {
	m := NewTextMessage("u", "", "hi")
	m2 := m.WithMetadata("error", "boom")

	if _, ok := m.Metadata["error"]; ok {
		t.Error("WithMetadata should not mutate the original message")
	}
	if m2.Metadata["error"] != "boom" {
		t.Errorf("expected metadata on copy, got %+v", m2.Metadata)
	}
}

func TestNewResponseMessage(t *testing.T) {
	m := NewResponseMessage("agent-1", "u1", map[string]any{"text": "ok"}, map[string]any{"intent": "greeting"})
	if m.Kind != MessageKindResponse {
		t.Errorf("expected response kind, got %s", m.Kind)
	}
	if m.Receiver != "u1" || m.Sender != "agent-1" {
		t.Errorf("unexpected addressing: %+v", m)
	}
	if m.Metadata["intent"] != "greeting" {
		t.Errorf("metadata not carried: %+v", m.Metadata)
	}
}
