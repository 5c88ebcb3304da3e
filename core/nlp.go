package core

import "context"

// Intent is a classified purpose extracted from user text. Confidence is
// always within [0,1]. Parameters carry intent-specific slots filled by the
// NLP provider.
type Intent struct {
	Name       string         `json:"name"`
	Confidence float64        `json:"confidence"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Entity is a structured value extracted from user text together with its
// character span. Confidence is always within [0,1].
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// NLPResult is the combined output of text analysis. An empty intent list is
// valid and means "no classification found".
type NLPResult struct {
	Intents   []Intent `json:"intents"`
	Entities  []Entity `json:"entities"`
	Sentiment float64  `json:"sentiment"`
	Language  string   `json:"language"`
}

// PrimaryIntent returns the intent with maximum confidence and true, or a
// zero Intent and false when no intents were detected. Ties are broken by
// first-encountered order; callers must not rely on tie ordering.
func (r NLPResult) PrimaryIntent() (Intent, bool) {
	if len(r.Intents) == 0 {
		return Intent{}, false
	}
	best := r.Intents[0]
	for _, in := range r.Intents[1:] {
		if in.Confidence > best.Confidence {
			best = in
		}
	}
	return best, true
}

// Entity returns the first extracted entity of the given type and true, or a
// zero Entity and false if none matches.
func (r NLPResult) Entity(entityType string) (Entity, bool) {
	for _, e := range r.Entities {
		if e.Type == entityType {
			return e, true
		}
	}
	return Entity{}, false
}

// NLPService is the contract agents depend on for language understanding and
// response generation. Implementations must tolerate provider failures:
// ProcessText returns an empty-intents/empty-entities result and
// GenerateResponse returns a generic apology string instead of propagating a
// transport-level error into agent logic.
type NLPService interface {
	// ProcessText analyzes raw user text producing intents, entities,
	// sentiment and language. hint carries optional session context the
	// provider may use to disambiguate.
	ProcessText(ctx context.Context, text string, hint map[string]any) (NLPResult, error)

	// GenerateResponse turns a prompt into free text.
	GenerateResponse(ctx context.Context, prompt string, hint map[string]any) (string, error)
}
