package core

import "context"

// Agent defines the interface every conversational agent in LeadMesh must
// implement.
//
// Agents are the primary processing units: they receive a message together
// with its session context, run language understanding, dispatch to an
// intent handler and produce a response message. They additionally expose
// named actions callable out-of-band, bypassing intent detection.
//
// Implementations must:
//   - Never propagate a failure out of ProcessMessage; conversational
//     failures become a normal apology response carrying error metadata
//   - Never propagate a failure out of PerformAction; action failures are
//     returned as ActionResult{Success: false}
//   - Be safe for concurrent use across distinct sessions
type Agent interface {
	// ID returns the unique agent identifier.
	ID() string
	// Name returns the human-readable display name.
	Name() string
	// Description returns a detailed description of the agent's purpose.
	Description() string
	// Capabilities returns the declared capability set.
	Capabilities() []Capability
	// IsActive reports whether the agent accepts new conversations.
	IsActive() bool

	// ProcessMessage is the primary entry point turning an inbound message
	// into a response addressed back to the original sender.
	ProcessMessage(ctx context.Context, msg Message, convo *Context) Message

	// PerformAction executes a named action with the given parameters,
	// bypassing NLP and intent detection.
	PerformAction(ctx context.Context, name string, params map[string]any, convo *Context) ActionResult

	// Deliver enqueues a message into the agent's private mailbox. Used by
	// the orchestrator's routing loop for asynchronous agent-to-agent
	// hand-off; independent of the direct ProcessMessage path.
	Deliver(msg Message)

	// Mailbox exposes the agent's private inbound queue.
	Mailbox() *Mailbox
}

// AgentFactory constructs an agent of a registered type. The orchestrator
// supplies the generated identifier plus caller-provided name, description
// and free-form extra options.
type AgentFactory func(id, name, description string, extra map[string]any) (Agent, error)

// AgentDescriptor is the read-only registry view of an agent used by listing
// APIs.
type AgentDescriptor struct {
	ID           string       `json:"agent_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Capabilities []Capability `json:"capabilities"`
	IsActive     bool         `json:"is_active"`
}

// Describe builds a descriptor snapshot for an agent.
func Describe(a Agent) AgentDescriptor {
	return AgentDescriptor{
		ID:           a.ID(),
		Name:         a.Name(),
		Description:  a.Description(),
		Capabilities: a.Capabilities(),
		IsActive:     a.IsActive(),
	}
}
