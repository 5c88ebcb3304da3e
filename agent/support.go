package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/service"
)

// TypeSupport is the registry type name for SupportAgent.
const TypeSupport = "support"

// SupportAgent handles customer-care conversations: subscription status,
// billing history, refunds and cancellations. It reads the acting user from
// the session context and calls into the subscription, payment and user
// collaborators.
type SupportAgent struct {
	BaseAgent

	subscriptions service.SubscriptionService
	payments      service.PaymentService
	users         service.UserService
}

// SupportCapabilities is the capability set declared by SupportAgent.
var SupportCapabilities = []core.Capability{
	core.CapabilitySubscriptionInquiry,
	core.CapabilityBillingQuestion,
	core.CapabilityRefundRequest,
	core.CapabilityCancellation,
	core.CapabilityGeneralSupport,
}

// NewSupportAgent constructs a support agent and builds its intent-handler
// and action tables. The tables are fixed after construction.
func NewSupportAgent(
	id, name, description string,
	nlpSvc core.NLPService,
	subscriptions service.SubscriptionService,
	payments service.PaymentService,
	users service.UserService,
	logger logging.Logger,
) *SupportAgent {
	a := &SupportAgent{
		BaseAgent:     NewBaseAgent(id, name, description, SupportCapabilities, nlpSvc, logger),
		subscriptions: subscriptions,
		payments:      payments,
		users:         users,
	}

	a.RegisterHandler("subscription_inquiry", a.handleSubscriptionInquiry)
	a.RegisterHandler("billing_question", a.handleBillingQuestion)
	a.RegisterHandler("refund_request", a.handleRefundRequest)
	a.RegisterHandler("cancellation", a.handleCancellation)
	a.RegisterHandler("greeting", a.handleGreeting)

	a.RegisterAction("get_subscription", a.actionGetSubscription)
	a.RegisterAction("list_payments", a.actionListPayments)
	a.RegisterAction("process_refund", a.actionProcessRefund)
	a.RegisterAction("cancel_subscription", a.actionCancelSubscription)
	a.RegisterAction("get_user", a.actionGetUser)

	return a
}

func (a *SupportAgent) handleSubscriptionInquiry(ctx context.Context, _ core.Message, convo *core.Context, _ core.NLPResult) (map[string]any, error) {
	userID, ok := resolveUserID(convo, nil)
	if !ok {
		return map[string]any{"subscription": nil, "note": "no user on session"}, nil
	}

	sub, err := a.subscriptions.GetActiveSubscription(ctx, userID)
	if errors.Is(err, service.ErrNotFound) {
		return map[string]any{"subscription": nil, "note": "no active subscription"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("subscription lookup failed: %w", err)
	}

	result := map[string]any{"subscription": sub}
	if plan, err := a.subscriptions.GetPlan(ctx, sub.PlanID); err == nil {
		result["plan"] = plan
	}
	return result, nil
}

func (a *SupportAgent) handleBillingQuestion(ctx context.Context, _ core.Message, convo *core.Context, _ core.NLPResult) (map[string]any, error) {
	userID, ok := resolveUserID(convo, nil)
	if !ok {
		return map[string]any{"payments": []service.Payment{}, "note": "no user on session"}, nil
	}

	payments, err := a.payments.ListPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("payment history lookup failed: %w", err)
	}
	return map[string]any{"payments": payments, "count": len(payments)}, nil
}

func (a *SupportAgent) handleRefundRequest(ctx context.Context, _ core.Message, convo *core.Context, res core.NLPResult) (map[string]any, error) {
	userID, ok := resolveUserID(convo, nil)
	if !ok {
		return map[string]any{"note": "no user on session"}, nil
	}

	if e, found := res.Entity("payment_id"); found {
		convo.SetState("pending_refund_payment_id", e.Value)
		return map[string]any{"payment_id": e.Value, "note": "refund pending confirmation"}, nil
	}

	// No payment referenced: surface recent payments so the user can pick one.
	payments, err := a.payments.ListPayments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("payment history lookup failed: %w", err)
	}
	return map[string]any{"payments": payments, "note": "payment reference required for refund"}, nil
}

func (a *SupportAgent) handleCancellation(ctx context.Context, _ core.Message, convo *core.Context, _ core.NLPResult) (map[string]any, error) {
	userID, ok := resolveUserID(convo, nil)
	if !ok {
		return map[string]any{"note": "no user on session"}, nil
	}

	sub, err := a.subscriptions.GetActiveSubscription(ctx, userID)
	if errors.Is(err, service.ErrNotFound) {
		return map[string]any{"subscription": nil, "note": "no active subscription to cancel"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("subscription lookup failed: %w", err)
	}

	convo.SetState("pending_cancellation_subscription_id", sub.ID)
	return map[string]any{"subscription": sub, "note": "cancellation pending confirmation"}, nil
}

func (a *SupportAgent) handleGreeting(ctx context.Context, _ core.Message, convo *core.Context, _ core.NLPResult) (map[string]any, error) {
	result := map[string]any{"greeting": true}
	if userID, ok := resolveUserID(convo, nil); ok {
		if user, err := a.users.GetUser(ctx, userID); err == nil {
			result["user_name"] = user.Name
		}
	}
	return result, nil
}

func (a *SupportAgent) actionGetSubscription(ctx context.Context, params map[string]any, convo *core.Context) core.ActionResult {
	userID, ok := resolveUserID(convo, params)
	if !ok {
		return core.ActionFailure("missing parameter: user_id")
	}
	sub, err := a.subscriptions.GetActiveSubscription(ctx, userID)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"subscription": sub})
}

func (a *SupportAgent) actionListPayments(ctx context.Context, params map[string]any, convo *core.Context) core.ActionResult {
	userID, ok := resolveUserID(convo, params)
	if !ok {
		return core.ActionFailure("missing parameter: user_id")
	}
	payments, err := a.payments.ListPayments(ctx, userID)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"payments": payments})
}

func (a *SupportAgent) actionProcessRefund(ctx context.Context, params map[string]any, _ *core.Context) core.ActionResult {
	paymentID, ok := stringParam(params, "payment_id")
	if !ok {
		return core.ActionFailure("missing parameter: payment_id")
	}
	amount, ok := floatParam(params, "amount")
	if !ok {
		return core.ActionFailure("missing parameter: amount")
	}
	payment, err := a.payments.ProcessRefund(ctx, paymentID, amount)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"payment": payment})
}

func (a *SupportAgent) actionCancelSubscription(ctx context.Context, params map[string]any, convo *core.Context) core.ActionResult {
	subID, ok := stringParam(params, "subscription_id")
	if !ok {
		// Fall back to the cancellation staged during conversation.
		if convo != nil {
			if v, found := convo.GetState("pending_cancellation_subscription_id"); found {
				subID, ok = v.(string), true
			}
		}
		if !ok {
			return core.ActionFailure("missing parameter: subscription_id")
		}
	}
	sub, err := a.subscriptions.CancelSubscription(ctx, subID)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"subscription": sub})
}

func (a *SupportAgent) actionGetUser(ctx context.Context, params map[string]any, convo *core.Context) core.ActionResult {
	userID, ok := resolveUserID(convo, params)
	if !ok {
		return core.ActionFailure("missing parameter: user_id")
	}
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return core.ActionFailure("%v", err)
	}
	return core.ActionSuccess(map[string]any{"user": user})
}
