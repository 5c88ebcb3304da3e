// Package leadmesh provides a high-level façade over the orchestrator and
// its collaborators (agents, NLP, sessions & logging) enabling rapid
// construction of conversational lead-generation systems. Most applications
// interact with this package by:
//  1. Creating a LeadMesh via New() (optionally overriding default in-memory services)
//  2. Registering agents directly or creating them from the built-in types
//  3. Sending user messages (SendMessage) or executing agent actions (ExecuteAction)
//
// The façade delegates routing to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a hosted
// NLP provider, a Redis session store and a structured logger.
package leadmesh

import (
	"context"

	"github.com/hupe1980/leadmesh/agent"
	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/nlp"
	"github.com/hupe1980/leadmesh/orchestrator"
	"github.com/hupe1980/leadmesh/service"
	"github.com/hupe1980/leadmesh/session"
)

// AgentTypeSupport and AgentTypeLeadGen are the built-in agent type names
// registered with the orchestrator's factory table.
const (
	AgentTypeSupport = agent.TypeSupport
	AgentTypeLeadGen = agent.TypeLeadGen
)

// Options configures the LeadMesh instance.
type Options struct {
	// NLP is the language-understanding provider shared by built-in agent
	// types. Defaults to the deterministic keyword service.
	NLP core.NLPService

	// SessionStore defaults to an in-memory store with a 24h idle TTL.
	SessionStore session.Store

	// Leads backs the built-in leadgen agent type. Defaults to in-memory.
	Leads service.LeadService

	// Billing backs the built-in support agent type. Defaults to in-memory.
	Billing *service.InMemoryBillingService

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Metrics enables Prometheus instrumentation on the orchestrator.
	Metrics *orchestrator.Metrics
}

// LeadMesh is the high-level façade aggregating the orchestrator and its
// default collaborators.
type LeadMesh struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a new LeadMesh instance with optional overrides. Any unset
// collaborator is initialized with an in-memory implementation, and the
// built-in support and leadgen agent types are registered.
func New(optFns ...func(o *Options)) *LeadMesh {
	opts := Options{
		NLP:     nlp.NewKeywordService(),
		Leads:   service.NewInMemoryLeadService(),
		Billing: service.NewInMemoryBillingService(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore(func(o *session.InMemoryOptions) {
			o.Logger = opts.Logger
		})
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Sessions = opts.SessionStore
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	orch.RegisterAgentType(AgentTypeSupport, func(id, name, description string, _ map[string]any) (core.Agent, error) {
		return agent.NewSupportAgent(id, name, description, opts.NLP, opts.Billing, opts.Billing, opts.Billing, opts.Logger), nil
	})
	orch.RegisterAgentType(AgentTypeLeadGen, func(id, name, description string, _ map[string]any) (core.Agent, error) {
		return agent.NewLeadGenAgent(id, name, description, opts.NLP, opts.Leads, opts.Logger), nil
	})

	return &LeadMesh{opts: opts, orch: orch}
}

// Orchestrator exposes the underlying orchestrator for advanced wiring such
// as mounting the HTTP gateway.
func (m *LeadMesh) Orchestrator() *orchestrator.Orchestrator { return m.orch }

// RegisterAgent adds an agent to the registry.
func (m *LeadMesh) RegisterAgent(a core.Agent) error { return m.orch.RegisterAgent(a) }

// CreateAgent instantiates and registers an agent of a registered type.
func (m *LeadMesh) CreateAgent(typeName, name, description string, extra map[string]any) (core.Agent, error) {
	return m.orch.CreateAgent(typeName, name, description, extra)
}

// Agents lists descriptor snapshots of the registered agents.
func (m *LeadMesh) Agents() []core.AgentDescriptor { return m.orch.ListAgents() }

// CreateSession opens a new conversation session for a user.
func (m *LeadMesh) CreateSession(ctx context.Context, userID string) (string, error) {
	return m.orch.CreateSession(ctx, userID)
}

// Session returns the context of an existing session.
func (m *LeadMesh) Session(ctx context.Context, sessionID string) (*core.Context, error) {
	return m.orch.GetSession(ctx, sessionID)
}

// SendMessage routes a user message through the orchestrator and returns the
// agent's response. agentID may be empty to let the orchestrator select.
func (m *LeadMesh) SendMessage(ctx context.Context, sessionID, text, agentID string) (core.Message, error) {
	return m.orch.ProcessUserMessage(ctx, sessionID, text, agentID, nil)
}

// ExecuteAction runs a named action on a specific agent within a session.
func (m *LeadMesh) ExecuteAction(ctx context.Context, sessionID, agentID, action string, params map[string]any) (core.ActionResult, error) {
	return m.orch.ExecuteAgentAction(ctx, sessionID, agentID, action, params)
}

// Start launches the asynchronous routing loop.
func (m *LeadMesh) Start() error { return m.orch.Start() }

// Stop terminates the routing loop.
func (m *LeadMesh) Stop() error { return m.orch.Stop() }
