package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	raw := "```json\n{\"intents\":[{\"name\":\"refund_request\",\"confidence\":1.7}],\"sentiment\":-3,\"language\":\"en\"}\n```"

	res, err := ParseAnalysis(raw)
	require.NoError(t, err)
	require.Len(t, res.Intents, 1)
	assert.Equal(t, 1.0, res.Intents[0].Confidence, "confidence must be clamped into [0,1]")
	assert.Equal(t, -1.0, res.Sentiment)
	assert.Equal(t, "en", res.Language)
}

func TestParseAnalysis_Malformed(t *testing.T) {
	_, err := ParseAnalysis("sure! here is the analysis")
	assert.Error(t, err)
}

func TestAnalysisPrompt_IncludesHints(t *testing.T) {
	prompt := AnalysisPrompt("hello", map[string]any{"intents": []string{"greeting", "farewell"}})
	assert.Contains(t, prompt, "greeting, farewell")
	assert.Contains(t, prompt, `"hello"`)
}
