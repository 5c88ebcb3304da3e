package nlp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/leadmesh/core"
)

// Apology is the generic fallback reply used when response generation fails.
const Apology = "I'm sorry, I'm having trouble responding right now. Please try again."

// AnalysisPrompt builds the instruction sent to a language model to extract
// intents, entities, sentiment and language as strict JSON. The optional
// "intents" hint narrows classification to the agent's known intent names.
func AnalysisPrompt(text string, hint map[string]any) string {
	var b strings.Builder
	b.WriteString("Analyze the user message and answer with a single JSON object ")
	b.WriteString(`of the shape {"intents":[{"name":string,"confidence":number}],`)
	b.WriteString(`"entities":[{"type":string,"value":string,"start":int,"end":int,"confidence":number}],`)
	b.WriteString(`"sentiment":number,"language":string}. `)
	b.WriteString("Confidences are in [0,1]; sentiment is in [-1,1]. ")
	b.WriteString("Return an empty intents array if nothing matches. No prose.\n")
	if names, ok := hint["intents"].([]string); ok && len(names) > 0 {
		fmt.Fprintf(&b, "Known intent names: %s.\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "User message: %q", text)
	return b.String()
}

// ParseAnalysis decodes a model's JSON answer into an NLPResult, tolerating
// surrounding markdown fences and clamping confidences into [0,1].
func ParseAnalysis(raw string) (core.NLPResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var res core.NLPResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &res); err != nil {
		return core.NLPResult{}, fmt.Errorf("malformed analysis payload: %w", err)
	}

	for i := range res.Intents {
		res.Intents[i].Confidence = clamp01(res.Intents[i].Confidence)
	}
	for i := range res.Entities {
		res.Entities[i].Confidence = clamp01(res.Entities[i].Confidence)
	}
	if res.Sentiment > 1 {
		res.Sentiment = 1
	}
	if res.Sentiment < -1 {
		res.Sentiment = -1
	}

	return res, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
