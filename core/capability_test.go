package core

import "testing"

func TestParseCapability(t *testing.T) {
	c, err := ParseCapability("lead_capture")
	if err != nil || c != CapabilityLeadCapture {
		t.Errorf("expected lead_capture to parse, got %v %v", c, err)
	}

	if _, err := ParseCapability("telepathy"); err == nil {
		t.Error("unknown capability should fail to parse")
	}
}

func TestValidateCapabilities(t *testing.T) {
	err := ValidateCapabilities([]Capability{CapabilityFollowUp, Capability("nope")})
	if err == nil {
		t.Error("expected validation error for unknown tag")
	}
}
