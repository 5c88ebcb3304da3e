package core

import "fmt"

// Capability is a closed tag describing what kinds of intents and actions an
// agent can handle. Using a validated closed set turns a mistyped capability
// into a registration-time error rather than a silent no-op at dispatch time.
type Capability string

const (
	// CapabilitySubscriptionInquiry covers questions about subscription status and plans.
	CapabilitySubscriptionInquiry Capability = "subscription_inquiry"
	// CapabilityBillingQuestion covers payment history and billing questions.
	CapabilityBillingQuestion Capability = "billing_question"
	// CapabilityRefundRequest covers refund processing.
	CapabilityRefundRequest Capability = "refund_request"
	// CapabilityCancellation covers subscription cancellation requests.
	CapabilityCancellation Capability = "cancellation"
	// CapabilityGeneralSupport covers uncategorized support conversations.
	CapabilityGeneralSupport Capability = "general_support"
	// CapabilityLeadCapture covers creating new leads from conversations.
	CapabilityLeadCapture Capability = "lead_capture"
	// CapabilityLeadQualification covers scoring and qualifying existing leads.
	CapabilityLeadQualification Capability = "lead_qualification"
	// CapabilityFollowUp covers scheduling follow-ups on leads.
	CapabilityFollowUp Capability = "follow_up"
	// CapabilityMarketInquiry covers market insight questions.
	CapabilityMarketInquiry Capability = "market_inquiry"
	// CapabilityLeadAssignment covers routing leads to human agents.
	CapabilityLeadAssignment Capability = "lead_assignment"
)

var validCapabilities = map[Capability]struct{}{
	CapabilitySubscriptionInquiry: {},
	CapabilityBillingQuestion:     {},
	CapabilityRefundRequest:       {},
	CapabilityCancellation:        {},
	CapabilityGeneralSupport:      {},
	CapabilityLeadCapture:         {},
	CapabilityLeadQualification:   {},
	CapabilityFollowUp:            {},
	CapabilityMarketInquiry:       {},
	CapabilityLeadAssignment:      {},
}

// Valid reports whether the capability belongs to the closed set.
func (c Capability) Valid() bool {
	_, ok := validCapabilities[c]
	return ok
}

// String returns the capability tag.
func (c Capability) String() string { return string(c) }

// ParseCapability converts a raw tag into a Capability, failing for tags
// outside the closed set.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown capability %q", s)
	}
	return c, nil
}

// ValidateCapabilities checks every capability in the set, returning the
// first invalid tag as an error.
func ValidateCapabilities(caps []Capability) error {
	for _, c := range caps {
		if !c.Valid() {
			return fmt.Errorf("unknown capability %q", c)
		}
	}
	return nil
}
