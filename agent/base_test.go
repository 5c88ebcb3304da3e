package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/internal/testutil"
)

func newTestBase(nlpSvc core.NLPService) *BaseAgent {
	b := NewBaseAgent("agent-1", "Test", "test agent", []core.Capability{core.CapabilityGeneralSupport}, nlpSvc, nil)
	return &b
}

func TestBaseAgent_ProcessMessage_DispatchesPrimaryIntent(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddResult("what plan am I on?", core.NLPResult{
		Intents: []core.Intent{
			{Name: "other", Confidence: 0.4},
			{Name: "subscription_inquiry", Confidence: 0.9},
		},
	})

	b := newTestBase(nlpSvc)
	var dispatched string
	b.RegisterHandler("subscription_inquiry", func(_ context.Context, _ core.Message, _ *core.Context, _ core.NLPResult) (map[string]any, error) {
		dispatched = "subscription_inquiry"
		return map[string]any{"plan": "pro"}, nil
	})
	b.RegisterHandler("other", func(_ context.Context, _ core.Message, _ *core.Context, _ core.NLPResult) (map[string]any, error) {
		dispatched = "other"
		return nil, nil
	})

	convo := core.NewContext("s1", "u1")
	msg := core.NewTextMessage("u1", "agent-1", "what plan am I on?")

	resp := b.ProcessMessage(context.Background(), msg, convo)

	assert.Equal(t, "subscription_inquiry", dispatched, "argmax-by-confidence intent must win")
	assert.Equal(t, core.MessageKindResponse, resp.Kind)
	assert.Equal(t, "u1", resp.Receiver, "response must be addressed back to the sender")
	assert.Equal(t, "subscription_inquiry", resp.Metadata["intent"])

	intents, ok := resp.Metadata["intents"].([]core.Intent)
	require.True(t, ok)
	assert.Len(t, intents, 2)
}

func TestBaseAgent_ProcessMessage_UnknownIntentFallsThrough(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddIntent("gibberish", "weather_forecast", 0.9)

	b := newTestBase(nlpSvc)
	convo := core.NewContext("s1", "")

	resp := b.ProcessMessage(context.Background(), core.NewTextMessage("u1", "agent-1", "gibberish"), convo)

	assert.Equal(t, "unhandled", resp.Metadata["intent"])
	data, ok := resp.Content["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["handled"])
}

func TestBaseAgent_ProcessMessage_HandlerErrorBecomesApology(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddIntent("boom", "explode", 1.0)

	b := newTestBase(nlpSvc)
	b.RegisterHandler("explode", func(_ context.Context, _ core.Message, _ *core.Context, _ core.NLPResult) (map[string]any, error) {
		return nil, errors.New("downstream unavailable")
	})

	resp := b.ProcessMessage(context.Background(), core.NewTextMessage("u1", "agent-1", "boom"), core.NewContext("s1", ""))

	assert.Equal(t, apologyText, resp.Content["text"])
	assert.Contains(t, resp.Metadata["error"], "downstream unavailable")
	assert.Equal(t, "u1", resp.Receiver)
}

func TestBaseAgent_ProcessMessage_RecoversFromPanic(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP()
	nlpSvc.Panic = true

	b := newTestBase(nlpSvc)

	assert.NotPanics(t, func() {
		resp := b.ProcessMessage(context.Background(), core.NewTextMessage("u1", "agent-1", "hi"), core.NewContext("s1", ""))
		assert.Equal(t, apologyText, resp.Content["text"])
		assert.Contains(t, resp.Metadata["error"], "panic")
	})
}

func TestBaseAgent_PerformAction_UnknownAction(t *testing.T) {
	b := newTestBase(testutil.NewStaticNLP())

	res := b.PerformAction(context.Background(), "teleport", nil, core.NewContext("s1", ""))

	assert.False(t, res.Success)
	assert.Equal(t, "Unknown action: teleport", res.Error)
}

func TestBaseAgent_PerformAction_RecoversFromPanic(t *testing.T) {
	b := newTestBase(testutil.NewStaticNLP())
	b.RegisterAction("boom", func(_ context.Context, _ map[string]any, _ *core.Context) core.ActionResult {
		panic("kaboom")
	})

	assert.NotPanics(t, func() {
		res := b.PerformAction(context.Background(), "boom", nil, core.NewContext("s1", ""))
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "kaboom")
	})
}

func TestBaseAgent_Mailbox(t *testing.T) {
	b := newTestBase(testutil.NewStaticNLP())

	b.Deliver(core.NewTextMessage("peer", "agent-1", "handoff"))
	assert.Equal(t, 1, b.Mailbox().Len())

	msg, ok := b.Mailbox().Dequeue()
	require.True(t, ok)
	assert.Equal(t, "handoff", msg.Text())
}
