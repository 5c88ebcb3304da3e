// Package orchestrator implements the composition root of LeadMesh: the
// agent registry, agent-type factories, the session table and the message
// routing paths. It wires a caller's request to the correct agent and
// returns its response.
//
// Two hand-off mechanisms coexist by design:
//
//  1. The direct call path used by ProcessUserMessage: the orchestrator
//     calls Agent.ProcessMessage and awaits its result.
//  2. The mailbox path used by the Start/Stop routing loop: messages placed
//     on the shared routing queue are forwarded into the target agent's
//     private mailbox. Nothing drains agent mailboxes on the interactive
//     path; this mechanism exists for asynchronous agent-to-agent hand-off.
//
// The orchestrator is process-wide state constructed once at startup and
// injected into request handlers; it must never be rebuilt per request.
package orchestrator
