package core

import "testing"

func TestContext_AppendAndCopyOnRead(t *testing.T) {
	c := NewContext("s1", "u1")

	c.AppendMessage(NewTextMessage("u1", "", "hello"))
	c.AppendMessage(NewTextMessage("agent", "u1", "hi"))

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	orig := msgs[0].Sender
	msgs[0].Sender = "changed"
	if c.Messages()[0].Sender != orig {
		t.Error("history slice should be copied on read")
	}
}

func TestContext_StateAndClone(t *testing.T) {
	c := NewContext("s2", "")
	c.SetState("pending_lead", "l-1")

	if v, ok := c.GetState("pending_lead"); !ok || v.(string) != "l-1" {
		t.Fatalf("state not applied: %+v", c.State)
	}

	clone := c.Clone()
	if clone == c {
		t.Error("Clone should be a different pointer")
	}

	clone.SetState("other", 2)
	if _, exists := c.GetState("other"); exists {
		t.Error("original should not have clone's new key")
	}

	clone.AppendMessage(NewTextMessage("u", "", "x"))
	if c.HistoryLen() != 0 {
		t.Error("original history should not grow with clone")
	}
}

func TestContext_LastMessage(t *testing.T) {
	c := NewContext("s3", "u1")
	if _, ok := c.LastMessage(); ok {
		t.Error("empty history should report no last message")
	}

	c.AppendMessage(NewTextMessage("u1", "", "first"))
	c.AppendMessage(NewTextMessage("u1", "", "second"))

	last, ok := c.LastMessage()
	if !ok || last.Text() != "second" {
		t.Errorf("expected last message 'second', got %+v", last)
	}
}
