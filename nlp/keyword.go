package nlp

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/leadmesh/core"
)

// Rule binds an intent name to trigger keywords. The confidence assigned to
// a matched intent scales with how many keywords matched.
type Rule struct {
	Intent   string
	Keywords []string
}

// KeywordService is a deterministic core.NLPService matching lowercase
// keywords against registered rules. It never fails and is the default
// service for demos and tests; production deployments swap in a
// provider-backed implementation.
type KeywordService struct {
	rules     []Rule
	responses map[string]string
}

var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?[0-9][0-9()\-\s]{6,}[0-9]`)
	leadIDPattern = regexp.MustCompile(`\blead[-_ ]?([a-zA-Z0-9-]+)`)
)

// NewKeywordService constructs a service with the given rules.
func NewKeywordService(rules ...Rule) *KeywordService {
	return &KeywordService{rules: rules, responses: map[string]string{}}
}

// DefaultRules covers the intents handled by the built-in support and
// leadgen agents, so a keyword-backed deployment works out of the box.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: "subscription_inquiry", Keywords: []string{"subscription", "plan", "upgrade"}},
		{Intent: "billing_question", Keywords: []string{"billing", "invoice", "charge", "payment"}},
		{Intent: "refund_request", Keywords: []string{"refund", "money back"}},
		{Intent: "cancellation", Keywords: []string{"cancel", "terminate"}},
		{Intent: "greeting", Keywords: []string{"hello", "hi there", "hey"}},
		{Intent: "lead_capture", Keywords: []string{"interested", "demo", "contact me", "reach me"}},
		{Intent: "lead_qualification", Keywords: []string{"qualify", "budget", "timeline"}},
		{Intent: "follow_up", Keywords: []string{"follow up", "call me back", "check in"}},
		{Intent: "market_inquiry", Keywords: []string{"market", "insight", "trend", "segment"}},
	}
}

// AddResponse registers a deterministic canned reply for a prompt. Prompts
// without a canned reply get a generic echo response.
func (s *KeywordService) AddResponse(prompt, response string) { s.responses[prompt] = response }

// ProcessText implements core.NLPService. Matching is case-insensitive;
// every rule with at least one keyword hit yields an intent whose confidence
// is the matched fraction of its keywords, floored at 0.5 so a single strong
// keyword still wins over the unhandled default.
func (s *KeywordService) ProcessText(_ context.Context, text string, _ map[string]any) (core.NLPResult, error) {
	lower := strings.ToLower(text)
	res := core.NLPResult{Language: "en"}

	for _, rule := range s.rules {
		matched := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		confidence := float64(matched) / float64(len(rule.Keywords))
		if confidence < 0.5 {
			confidence = 0.5
		}
		res.Intents = append(res.Intents, core.Intent{Name: rule.Intent, Confidence: confidence})
	}

	res.Entities = extractEntities(text)
	res.Sentiment = scoreSentiment(lower)

	return res, nil
}

// GenerateResponse implements core.NLPService returning canned or echo text.
func (s *KeywordService) GenerateResponse(_ context.Context, prompt string, _ map[string]any) (string, error) {
	if reply, ok := s.responses[prompt]; ok {
		return reply, nil
	}
	return fmt.Sprintf("Understood: %s", prompt), nil
}

func extractEntities(text string) []core.Entity {
	var entities []core.Entity
	if loc := emailPattern.FindStringIndex(text); loc != nil {
		entities = append(entities, core.Entity{
			Type: "email", Value: text[loc[0]:loc[1]], Start: loc[0], End: loc[1], Confidence: 0.95,
		})
	}
	if m := leadIDPattern.FindStringSubmatchIndex(strings.ToLower(text)); m != nil {
		entities = append(entities, core.Entity{
			Type: "lead_id", Value: text[m[2]:m[3]], Start: m[2], End: m[3], Confidence: 0.9,
		})
	}
	if loc := phonePattern.FindStringIndex(text); loc != nil {
		entities = append(entities, core.Entity{
			Type: "phone", Value: text[loc[0]:loc[1]], Start: loc[0], End: loc[1], Confidence: 0.7,
		})
	}
	return entities
}

func scoreSentiment(lower string) float64 {
	score := 0.0
	for _, w := range []string{"thanks", "great", "good", "love", "happy"} {
		if strings.Contains(lower, w) {
			score += 0.3
		}
	}
	for _, w := range []string{"angry", "bad", "terrible", "refund", "cancel"} {
		if strings.Contains(lower, w) {
			score -= 0.3
		}
	}
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}
