package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
)

// apologyText is the user-visible reply when message processing fails.
// The underlying error travels in the response metadata, never in the text.
const apologyText = "I'm sorry, something went wrong while handling your message. Please try again."

// unhandledIntent is the dispatch key used when no intent matched or the
// primary intent has no registered handler.
const unhandledIntent = "unhandled"

// HandlerFunc processes a message classified under one intent. The returned
// map is the structured handler result embedded into the response message;
// an error triggers the agent's conversational failure path.
type HandlerFunc func(ctx context.Context, msg core.Message, convo *core.Context, res core.NLPResult) (map[string]any, error)

// ActionFunc executes a named out-of-band action. Implementations decide
// their own required parameters and report failures through the result,
// never by panicking.
type ActionFunc func(ctx context.Context, params map[string]any, convo *core.Context) core.ActionResult

// BaseAgent bundles the shared message-processing pipeline, the intent
// handler registry, the action registry and mailbox ownership. Embed it in
// concrete agent implementations and register handlers/actions during
// construction; the tables are fixed afterwards, so dispatch needs no
// locking. All exported methods are goroutine-safe across distinct sessions.
type BaseAgent struct {
	id           string
	name         string
	description  string
	capabilities []core.Capability
	active       bool
	created      time.Time

	nlp     core.NLPService
	logger  logging.Logger
	mailbox *core.Mailbox

	handlers  map[string]HandlerFunc
	actions   map[string]ActionFunc
	unhandled HandlerFunc
}

// NewBaseAgent constructs a BaseAgent with the given identity, capability
// set and collaborators. A nil logger is substituted with NoOpLogger.
func NewBaseAgent(id, name, description string, caps []core.Capability, nlpSvc core.NLPService, logger logging.Logger) BaseAgent {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	b := BaseAgent{
		id:           id,
		name:         name,
		description:  description,
		capabilities: caps,
		active:       true,
		created:      time.Now().UTC(),
		nlp:          nlpSvc,
		logger:       logger,
		mailbox:      core.NewMailbox(),
		handlers:     map[string]HandlerFunc{},
		actions:      map[string]ActionFunc{},
	}
	b.unhandled = b.defaultUnhandled
	return b
}

// ID returns the unique agent identifier.
func (b *BaseAgent) ID() string { return b.id }

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Capabilities returns a copy of the declared capability set.
func (b *BaseAgent) Capabilities() []core.Capability {
	caps := make([]core.Capability, len(b.capabilities))
	copy(caps, b.capabilities)
	return caps
}

// IsActive reports whether the agent accepts new conversations.
func (b *BaseAgent) IsActive() bool { return b.active }

// SetActive toggles the active flag.
func (b *BaseAgent) SetActive(active bool) { b.active = active }

// CreatedAt returns the construction timestamp.
func (b *BaseAgent) CreatedAt() time.Time { return b.created }

// Mailbox exposes the agent's private inbound queue.
func (b *BaseAgent) Mailbox() *core.Mailbox { return b.mailbox }

// Deliver enqueues a message into the agent's private mailbox. Nothing
// drains the mailbox on the interactive path; it backs the orchestrator's
// asynchronous routing loop for future agent-to-agent hand-off.
func (b *BaseAgent) Deliver(msg core.Message) { b.mailbox.Enqueue(msg) }

// RegisterHandler binds an intent name to a handler. Call during
// construction only; the table is fixed afterwards.
func (b *BaseAgent) RegisterHandler(intent string, fn HandlerFunc) { b.handlers[intent] = fn }

// RegisterAction binds an action name to its implementation. Call during
// construction only.
func (b *BaseAgent) RegisterAction(name string, fn ActionFunc) { b.actions[name] = fn }

// SetUnhandled replaces the default fall-through handler.
func (b *BaseAgent) SetUnhandled(fn HandlerFunc) { b.unhandled = fn }

// ProcessMessage runs the full conversational pipeline: NLP analysis,
// primary-intent selection (argmax by confidence, first wins on ties),
// handler dispatch, response generation, and response construction addressed
// back to the original sender. Any failure or panic along the way is
// converted into an apology response carrying the error description in
// metadata; this method never panics and has no error return by design.
func (b *BaseAgent) ProcessMessage(ctx context.Context, msg core.Message, convo *core.Context) (out core.Message) {
	start := time.Now()
	intentName := unhandledIntent

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("agent.process.panic", "agent_id", b.id, "panic", fmt.Sprintf("%v", r))
			out = b.apology(msg, fmt.Sprintf("panic: %v", r))
		}
		b.logger.Debug("agent.process.done", "agent_id", b.id, "intent", intentName, "duration_ms", time.Since(start).Milliseconds())
	}()

	hint := map[string]any{
		"session_id": convo.SessionID,
		"user_id":    convo.UserID,
		"intents":    b.intentNames(),
	}

	res, err := b.nlp.ProcessText(ctx, msg.Text(), hint)
	if err != nil {
		b.logger.Warn("agent.process.nlp_failed", "agent_id", b.id, "error", err.Error())
		return b.apology(msg, err.Error())
	}

	handler := b.unhandled
	if primary, ok := res.PrimaryIntent(); ok {
		if fn, found := b.handlers[primary.Name]; found {
			handler = fn
			intentName = primary.Name
		}
	}

	result, err := handler(ctx, msg, convo, res)
	if err != nil {
		b.logger.Warn("agent.process.handler_failed", "agent_id", b.id, "intent", intentName, "error", err.Error())
		return b.apology(msg, err.Error())
	}

	reply, err := b.nlp.GenerateResponse(ctx, buildReplyPrompt(msg.Text(), intentName, result), hint)
	if err != nil {
		b.logger.Warn("agent.process.generation_failed", "agent_id", b.id, "error", err.Error())
		return b.apology(msg, err.Error())
	}

	response := core.NewResponseMessage(b.id, msg.Sender, map[string]any{
		"text": reply,
		"data": result,
	}, map[string]any{
		"intent":      intentName,
		"intents":     res.Intents,
		"sentiment":   res.Sentiment,
		"in_reply_to": msg.ID,
	})

	return response
}

// PerformAction dispatches to the action registry, bypassing NLP and intent
// detection. Unknown names and handler panics become failed results; this
// method never panics and never returns a Go error.
func (b *BaseAgent) PerformAction(ctx context.Context, name string, params map[string]any, convo *core.Context) (res core.ActionResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("agent.action.panic", "agent_id", b.id, "action", name, "panic", fmt.Sprintf("%v", r))
			res = core.ActionFailure("action %s failed: %v", name, r)
		}
		b.logger.Debug("agent.action.done", "agent_id", b.id, "action", name, "success", res.Success, "duration_ms", time.Since(start).Milliseconds())
	}()

	fn, ok := b.actions[name]
	if !ok {
		return core.UnknownAction(name)
	}

	return fn(ctx, params, convo)
}

// ActionNames returns the sorted list of registered action names.
func (b *BaseAgent) ActionNames() []string {
	names := make([]string, 0, len(b.actions))
	for name := range b.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *BaseAgent) intentNames() []string {
	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *BaseAgent) apology(msg core.Message, errDesc string) core.Message {
	return core.NewResponseMessage(b.id, msg.Sender, map[string]any{
		"text": apologyText,
	}, map[string]any{
		"error":       errDesc,
		"in_reply_to": msg.ID,
	})
}

func (b *BaseAgent) defaultUnhandled(_ context.Context, msg core.Message, _ *core.Context, _ core.NLPResult) (map[string]any, error) {
	return map[string]any{
		"handled": false,
		"echo":    msg.Text(),
	}, nil
}

// buildReplyPrompt embeds the user text, the detected intent and the
// structured handler result into the generation prompt.
func buildReplyPrompt(text, intent string, result map[string]any) string {
	var b strings.Builder
	b.WriteString("Write a short, polite reply to the user.\n")
	fmt.Fprintf(&b, "User message: %q\n", text)
	fmt.Fprintf(&b, "Detected intent: %s\n", intent)
	if len(result) > 0 {
		keys := make([]string, 0, len(result))
		for k := range result {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Facts to reference:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %v\n", k, result[k])
		}
	}
	return b.String()
}

// stringParam extracts a non-empty string parameter.
func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// floatParam extracts a numeric parameter accepting both float64 and int
// (JSON decoding yields float64, programmatic callers may pass int).
func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// resolveUserID prefers the session's user identifier, falling back to an
// explicit parameter.
func resolveUserID(convo *core.Context, params map[string]any) (string, bool) {
	if convo != nil && convo.UserID != "" {
		return convo.UserID, true
	}
	return stringParam(params, "user_id")
}
