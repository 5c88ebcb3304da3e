package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/session"
)

// defaultUser is recorded as the sender when a session carries no user
// identifier.
const defaultUser = "user"

// fallbackText is returned when no agent is registered or none is active.
const fallbackText = "I'm sorry, no agent is available to handle your request right now. Please try again later."

// Options configures an Orchestrator.
type Options struct {
	// Sessions is the session store. Defaults to a volatile in-memory store.
	Sessions session.Store
	// Logger receives orchestration events. Defaults to NoOpLogger.
	Logger logging.Logger
	// Metrics enables Prometheus instrumentation when non-nil.
	Metrics *Metrics
	// QueueSize bounds the shared routing queue. Route blocks once full.
	QueueSize int
}

// Orchestrator owns the agent registry, the agent-type factories, the
// session table and the routing loop. All methods are safe for concurrent
// use.
type Orchestrator struct {
	mu        sync.RWMutex
	agents    map[string]core.Agent
	order     []string // registration order, drives default agent selection
	factories map[string]core.AgentFactory

	sessions session.Store
	logger   logging.Logger
	metrics  *Metrics

	queue     chan core.Message
	runMu     sync.Mutex
	runCancel context.CancelFunc
	runDone   chan struct{}
}

// New constructs an Orchestrator.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger:    logging.NoOpLogger{},
		QueueSize: 128,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore()
	}

	return &Orchestrator{
		agents:    make(map[string]core.Agent),
		factories: make(map[string]core.AgentFactory),
		sessions:  opts.Sessions,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		queue:     make(chan core.Message, opts.QueueSize),
	}
}

// RegisterAgentType registers a factory under a type name. Registering the
// same type again replaces the factory.
func (o *Orchestrator) RegisterAgentType(typeName string, factory core.AgentFactory) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.factories[typeName] = factory
	o.logger.Debug("orchestrator.agent_type_registered", "type", typeName)
}

// CreateAgent instantiates an agent of a registered type, assigns it a fresh
// identifier and registers it. Returns ErrUnknownAgentType for unregistered
// type names.
func (o *Orchestrator) CreateAgent(typeName, name, description string, extra map[string]any) (core.Agent, error) {
	o.mu.RLock()
	factory, ok := o.factories[typeName]
	o.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("agent type %s: %w", typeName, core.ErrUnknownAgentType)
	}

	agent, err := factory(core.NewID(), name, description, extra)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s agent: %w", typeName, err)
	}
	if err := o.RegisterAgent(agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// RegisterAgent adds an agent to the registry after validating its declared
// capabilities against the closed capability set. Re-registering an existing
// identifier replaces the agent in place, keeping its selection order.
func (o *Orchestrator) RegisterAgent(agent core.Agent) error {
	if agent == nil {
		return errors.New("agent must not be nil")
	}
	if err := core.ValidateCapabilities(agent.Capabilities()); err != nil {
		return fmt.Errorf("agent %s: %w", agent.ID(), err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.agents[agent.ID()]; !exists {
		o.order = append(o.order, agent.ID())
	}
	o.agents[agent.ID()] = agent

	o.logger.Info("orchestrator.agent_registered",
		"agent_id", agent.ID(),
		"name", agent.Name(),
		"capabilities", agent.Capabilities(),
	)
	return nil
}

// UnregisterAgent removes an agent from the registry. Removing an unknown
// identifier is a no-op.
func (o *Orchestrator) UnregisterAgent(agentID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.agents[agentID]; !ok {
		return
	}
	delete(o.agents, agentID)
	for i, id := range o.order {
		if id == agentID {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	o.logger.Info("orchestrator.agent_unregistered", "agent_id", agentID)
}

// GetAgent looks up a registered agent. Returns ErrUnknownAgent for unknown
// identifiers.
func (o *Orchestrator) GetAgent(agentID string) (core.Agent, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	agent, ok := o.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("agent %s: %w", agentID, core.ErrUnknownAgent)
	}
	return agent, nil
}

// ListAgents returns descriptor snapshots of all registered agents in
// registration order.
func (o *Orchestrator) ListAgents() []core.AgentDescriptor {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]core.AgentDescriptor, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, core.Describe(o.agents[id]))
	}
	return out
}

// AgentsByCapability returns descriptors of active agents declaring the
// given capability, in registration order.
func (o *Orchestrator) AgentsByCapability(cap core.Capability) []core.AgentDescriptor {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []core.AgentDescriptor
	for _, id := range o.order {
		agent := o.agents[id]
		if !agent.IsActive() {
			continue
		}
		for _, c := range agent.Capabilities() {
			if c == cap {
				out = append(out, core.Describe(agent))
				break
			}
		}
	}
	return out
}

// CreateSession opens a new session for a user and returns its generated
// identifier. userID may be empty for anonymous sessions.
func (o *Orchestrator) CreateSession(ctx context.Context, userID string) (string, error) {
	convo := core.NewContext(core.NewID(), userID)
	if err := o.sessions.Create(ctx, convo); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	o.logger.Info("orchestrator.session_created", "session_id", convo.SessionID, "user_id", userID)
	return convo.SessionID, nil
}

// GetSession returns the context of an existing session. Returns
// ErrUnknownSession for unknown identifiers.
func (o *Orchestrator) GetSession(ctx context.Context, sessionID string) (*core.Context, error) {
	return o.sessions.Get(ctx, sessionID)
}

// RemoveSession deletes a session and its history.
func (o *Orchestrator) RemoveSession(ctx context.Context, sessionID string) error {
	if err := o.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	o.logger.Info("orchestrator.session_removed", "session_id", sessionID)
	return nil
}

// ProcessUserMessage appends the user's message to the session history,
// selects an agent, awaits its response and appends that too. Exactly two
// messages are added per successful call. metadata entries are attached to
// the constructed user message and may be nil.
//
// targetAgentID pins the message to a specific agent; an unknown identifier
// is a caller error reported as ErrUnknownAgent. When empty, the first
// registered active agent is selected. When no agent can be selected the
// orchestrator answers itself with a fallback response; this is a normal
// conversational outcome, not an error.
func (o *Orchestrator) ProcessUserMessage(ctx context.Context, sessionID, text, targetAgentID string, metadata map[string]any) (core.Message, error) {
	convo, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return core.Message{}, err
	}

	var target core.Agent
	if targetAgentID != "" {
		if target, err = o.GetAgent(targetAgentID); err != nil {
			return core.Message{}, err
		}
	} else {
		target = o.selectAgent()
	}

	sender := convo.UserID
	if sender == "" {
		sender = defaultUser
	}
	receiver := ""
	if target != nil {
		receiver = target.ID()
	}

	msg := core.NewTextMessage(sender, receiver, text)
	for k, v := range metadata {
		msg = msg.WithMetadata(k, v)
	}
	convo.AppendMessage(msg)

	var response core.Message
	if target == nil {
		o.logger.Warn("orchestrator.no_agent_available", "session_id", sessionID)
		o.metrics.incFallback()
		response = core.NewResponseMessage("orchestrator", sender,
			map[string]any{"text": fallbackText},
			map[string]any{"fallback": true, "in_reply_to": msg.ID},
		)
	} else {
		response = target.ProcessMessage(ctx, msg, convo)
		if _, failed := response.Metadata["error"]; failed {
			o.metrics.incFailed()
		}
	}
	convo.AppendMessage(response)

	if err := o.sessions.Save(ctx, convo); err != nil {
		return core.Message{}, fmt.Errorf("failed to persist session %s: %w", sessionID, err)
	}

	o.metrics.incProcessed()
	o.logger.Debug("orchestrator.message_processed",
		"session_id", sessionID,
		"agent_id", receiver,
		"history_len", convo.HistoryLen(),
	)
	return response, nil
}

// ExecuteAgentAction runs a named action on a specific agent within a
// session, bypassing intent detection. The agent's ActionResult is returned
// verbatim; only unknown sessions or agents surface as errors.
func (o *Orchestrator) ExecuteAgentAction(ctx context.Context, sessionID, agentID, action string, params map[string]any) (core.ActionResult, error) {
	convo, err := o.sessions.Get(ctx, sessionID)
	if err != nil {
		return core.ActionResult{}, err
	}
	agent, err := o.GetAgent(agentID)
	if err != nil {
		return core.ActionResult{}, err
	}

	result := agent.PerformAction(ctx, action, params, convo)

	if err := o.sessions.Save(ctx, convo); err != nil {
		return core.ActionResult{}, fmt.Errorf("failed to persist session %s: %w", sessionID, err)
	}

	o.metrics.incAction(result.Success)
	return result, nil
}

// Route places a message on the shared routing queue for asynchronous
// delivery to the receiver's mailbox. Blocks while the queue is full.
func (o *Orchestrator) Route(msg core.Message) {
	o.queue <- msg
}

// Start launches the routing loop. Returns an error if already running.
func (o *Orchestrator) Start() error {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	if o.runCancel != nil {
		return errors.New("orchestrator already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.runCancel = cancel
	o.runDone = make(chan struct{})

	go o.routeLoop(ctx)

	o.logger.Info("orchestrator.started")
	return nil
}

// Stop terminates the routing loop and waits for it to drain the message in
// flight. Messages still queued are abandoned.
func (o *Orchestrator) Stop() error {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	if o.runCancel == nil {
		return errors.New("orchestrator not running")
	}

	o.runCancel()
	<-o.runDone
	o.runCancel = nil
	o.runDone = nil

	o.logger.Info("orchestrator.stopped")
	return nil
}

func (o *Orchestrator) routeLoop(ctx context.Context) {
	defer close(o.runDone)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-o.queue:
			o.deliver(msg)
		}
	}
}

// deliver forwards a routed message into its receiver's mailbox. Messages
// addressed to unknown or missing receivers are dropped with a warning.
func (o *Orchestrator) deliver(msg core.Message) {
	o.mu.RLock()
	agent, ok := o.agents[msg.Receiver]
	o.mu.RUnlock()

	if !ok {
		o.logger.Warn("orchestrator.route_dropped",
			"message_id", msg.ID,
			"receiver", msg.Receiver,
		)
		o.metrics.incDropped()
		return
	}

	agent.Deliver(msg)
	o.metrics.incRouted()
	o.logger.Debug("orchestrator.route_delivered",
		"message_id", msg.ID,
		"receiver", msg.Receiver,
	)
}

// selectAgent picks the first registered active agent, or nil when none
// qualifies.
func (o *Orchestrator) selectAgent() core.Agent {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, id := range o.order {
		if agent := o.agents[id]; agent.IsActive() {
			return agent
		}
	}
	return nil
}
