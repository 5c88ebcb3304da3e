package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/internal/testutil"
	"github.com/hupe1980/leadmesh/service"
)

func newTestSupportAgent(nlpSvc core.NLPService) (*SupportAgent, *service.InMemoryBillingService) {
	billing := service.NewInMemoryBillingService()
	a := NewSupportAgent("support-1", "Support", "customer care", nlpSvc, billing, billing, billing, nil)
	return a, billing
}

func TestSupportAgent_SubscriptionInquiry(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddIntent("what is my subscription status?", "subscription_inquiry", 0.95)
	a, billing := newTestSupportAgent(nlpSvc)

	billing.PutSubscription(service.Subscription{ID: "sub-1", UserID: "u1", PlanID: "pro", Status: "active"})
	billing.PutPlan(service.Plan{ID: "pro", Name: "Pro", Price: 49, Currency: "USD", Interval: "month"})

	convo := core.NewContext("s1", "u1")
	resp := a.ProcessMessage(context.Background(), core.NewTextMessage("u1", "support-1", "what is my subscription status?"), convo)

	assert.Equal(t, "subscription_inquiry", resp.Metadata["intent"])
	data, ok := resp.Content["data"].(map[string]any)
	require.True(t, ok)
	sub, ok := data["subscription"].(service.Subscription)
	require.True(t, ok)
	assert.Equal(t, "active", sub.Status)
}

func TestSupportAgent_SubscriptionInquiry_NoSubscription(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddIntent("what is my subscription status?", "subscription_inquiry", 0.95)
	a, _ := newTestSupportAgent(nlpSvc)

	convo := core.NewContext("s1", "u1")
	resp := a.ProcessMessage(context.Background(), core.NewTextMessage("u1", "support-1", "what is my subscription status?"), convo)

	// A missing subscription is a normal outcome, not a conversational failure.
	assert.Equal(t, "subscription_inquiry", resp.Metadata["intent"])
	assert.NotContains(t, resp.Metadata, "error")
	data, ok := resp.Content["data"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, data["subscription"])
	assert.Equal(t, "no active subscription", data["note"])
}

func TestSupportAgent_Cancellation_StagesSubscription(t *testing.T) {
	nlpSvc := testutil.NewStaticNLP().AddIntent("please cancel my plan", "cancellation", 0.9)
	a, billing := newTestSupportAgent(nlpSvc)
	billing.PutSubscription(service.Subscription{ID: "sub-9", UserID: "u1", PlanID: "pro", Status: "active"})

	convo := core.NewContext("s1", "u1")
	a.ProcessMessage(context.Background(), core.NewTextMessage("u1", "support-1", "please cancel my plan"), convo)

	staged, ok := convo.GetState("pending_cancellation_subscription_id")
	require.True(t, ok)
	assert.Equal(t, "sub-9", staged)

	// Confirming uses the staged subscription when no explicit id is given.
	res := a.PerformAction(context.Background(), "cancel_subscription", nil, convo)
	require.True(t, res.Success, res.Error)
	sub, ok := res.Data["subscription"].(service.Subscription)
	require.True(t, ok)
	assert.Equal(t, "cancelled", sub.Status)
}

func TestSupportAgent_ProcessRefund_Validation(t *testing.T) {
	a, billing := newTestSupportAgent(testutil.NewStaticNLP())
	billing.AddPayment(service.Payment{ID: "pay-1", UserID: "u1", Amount: 49, Status: "settled"})

	res := a.PerformAction(context.Background(), "process_refund", map[string]any{"amount": 10.0}, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "payment_id")

	res = a.PerformAction(context.Background(), "process_refund", map[string]any{"payment_id": "pay-1"}, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "amount")

	res = a.PerformAction(context.Background(), "process_refund", map[string]any{"payment_id": "pay-1", "amount": 49.0}, nil)
	require.True(t, res.Success, res.Error)
}

func TestSupportAgent_GetSubscription_MissingUser(t *testing.T) {
	a, _ := newTestSupportAgent(testutil.NewStaticNLP())

	res := a.PerformAction(context.Background(), "get_subscription", nil, core.NewContext("s1", ""))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "user_id")
}
