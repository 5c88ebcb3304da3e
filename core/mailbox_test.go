package core

import "testing"

func TestMailbox_FIFO(t *testing.T) {
	mb := NewMailbox()
	mb.Enqueue(NewTextMessage("a", "b", "first"))
	mb.Enqueue(NewTextMessage("a", "b", "second"))

	if mb.Len() != 2 {
		t.Fatalf("expected 2 queued messages, got %d", mb.Len())
	}

	m1, ok := mb.Dequeue()
	if !ok || m1.Text() != "first" {
		t.Errorf("expected FIFO order, got %+v", m1)
	}
	m2, _ := mb.Dequeue()
	if m2.Text() != "second" {
		t.Errorf("expected FIFO order, got %+v", m2)
	}

	if _, ok := mb.Dequeue(); ok {
		t.Error("empty mailbox should report no message")
	}
}
