// Package core provides the foundational domain types and interfaces used by
// LeadMesh. It defines the core abstractions for:
//
//   - Messages (immutable communication records exchanged between callers,
//     the orchestrator and agents)
//   - Contexts (stateful per-session conversational containers with an
//     append-only message history)
//   - Agents (capability-declaring conversational units with intent-driven
//     message processing and named out-of-band actions)
//   - The NLP contract (intent/entity extraction and response generation)
//   - Mailboxes (private FIFO queues for asynchronous agent hand-off)
//
// The package intentionally keeps implementation concerns (persistence,
// orchestration, concrete agents, NLP providers) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
