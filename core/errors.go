package core

import "errors"

// Boundary errors raised by the orchestrator's public methods. The
// surrounding API layer maps these to client-facing "not found" responses.
// Everything inside an agent's message/action processing is recovered
// locally and surfaced as structured data instead.
var (
	// ErrUnknownSession is returned when a session identifier does not exist.
	ErrUnknownSession = errors.New("unknown session")
	// ErrUnknownAgent is returned when an agent identifier is not registered.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrUnknownAgentType is returned when no factory exists for an agent type name.
	ErrUnknownAgentType = errors.New("unknown agent type")
)
