// Package agent contains first-class agent implementations and supporting
// utilities for building conversational agents in LeadMesh. The package
// focuses on three concerns:
//
//  1. Base message/action plumbing (BaseAgent): NLP invocation, primary
//     intent selection, handler dispatch, failure recovery and mailbox
//     ownership
//  2. Concrete support-desk agent (SupportAgent) backed by subscription,
//     payment and user services
//  3. Concrete lead-generation agent (LeadGenAgent) backed by the lead
//     service
//
// Design principles:
//   - Minimal hidden global state; explicit wiring via constructors
//   - Failures are data: ProcessMessage always returns a response message and
//     PerformAction always returns an ActionResult, never a panic or error
//   - Extensibility: embed BaseAgent, register intent handlers and actions in
//     the constructor; the handler table is fixed at construction time
//
// The package intentionally keeps persistence, NLP provider specifics and
// orchestration in their respective packages to avoid cyclic deps.
package agent
