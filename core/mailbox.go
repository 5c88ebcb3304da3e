package core

import "sync"

// Mailbox is a private, unbounded FIFO queue of inbound messages owned by
// exactly one agent. It backs the orchestrator's asynchronous routing path
// for agent-to-agent hand-off and is independent of the direct
// request/response call path.
//
// The queue is unbounded: a producer that floods a mailbox faster than its
// owner drains it causes unbounded memory growth. Callers that need
// backpressure must impose it above this layer.
type Mailbox struct {
	mu    sync.Mutex
	queue []Message
}

// NewMailbox constructs an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Enqueue appends a message to the tail of the queue.
func (m *Mailbox) Enqueue(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, msg)
}

// Dequeue removes and returns the head of the queue. The second return is
// false when the mailbox is empty.
func (m *Mailbox) Dequeue() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return Message{}, false
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg, true
}

// Len returns the number of queued messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
