package core

import "testing"

func TestNLPResult_PrimaryIntent(t *testing.T) {
	res := NLPResult{Intents: []Intent{
		{Name: "A", Confidence: 0.4},
		{Name: "B", Confidence: 0.9},
		{Name: "C", Confidence: 0.9},
	}}

	primary, ok := res.PrimaryIntent()
	if !ok {
		t.Fatal("expected a primary intent")
	}
	if primary.Name != "B" {
		t.Errorf("expected argmax-by-confidence with first-wins ties, got %q", primary.Name)
	}
}

func TestNLPResult_PrimaryIntentEmpty(t *testing.T) {
	if _, ok := (NLPResult{}).PrimaryIntent(); ok {
		t.Error("empty intent list should yield no primary intent")
	}
}

func TestNLPResult_Entity(t *testing.T) {
	res := NLPResult{Entities: []Entity{
		{Type: "lead_id", Value: "l-7", Confidence: 0.8},
		{Type: "lead_id", Value: "l-9", Confidence: 0.5},
	}}

	e, ok := res.Entity("lead_id")
	if !ok || e.Value != "l-7" {
		t.Errorf("expected first lead_id entity, got %+v", e)
	}
	if _, ok := res.Entity("email"); ok {
		t.Error("missing entity type should not be found")
	}
}
