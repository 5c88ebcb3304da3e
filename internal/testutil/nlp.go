package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/leadmesh/core"
)

// StaticNLP is a scripted core.NLPService for tests. Results are keyed by
// exact input text; unmatched text yields the Default result. Generated
// replies echo the prompt unless a canned reply is set.
type StaticNLP struct {
	mu      sync.Mutex
	Results map[string]core.NLPResult
	Replies map[string]string
	Default core.NLPResult

	// ProcessCalls and GenerateCalls record inputs for assertions.
	ProcessCalls  []string
	GenerateCalls []string

	// Panic makes ProcessText panic, exercising recovery paths.
	Panic bool
}

// NewStaticNLP constructs an empty scripted service.
func NewStaticNLP() *StaticNLP {
	return &StaticNLP{
		Results: map[string]core.NLPResult{},
		Replies: map[string]string{},
	}
}

// AddIntent scripts a single-intent result for the given text.
func (s *StaticNLP) AddIntent(text, intent string, confidence float64) *StaticNLP {
	s.Results[text] = core.NLPResult{
		Intents:  []core.Intent{{Name: intent, Confidence: confidence}},
		Language: "en",
	}
	return s
}

// AddResult scripts a full result for the given text.
func (s *StaticNLP) AddResult(text string, res core.NLPResult) *StaticNLP {
	s.Results[text] = res
	return s
}

// ProcessText implements core.NLPService.
func (s *StaticNLP) ProcessText(_ context.Context, text string, _ map[string]any) (core.NLPResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Panic {
		panic("scripted nlp panic")
	}
	s.ProcessCalls = append(s.ProcessCalls, text)
	if res, ok := s.Results[text]; ok {
		return res, nil
	}
	return s.Default, nil
}

// GenerateResponse implements core.NLPService.
func (s *StaticNLP) GenerateResponse(_ context.Context, prompt string, _ map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GenerateCalls = append(s.GenerateCalls, prompt)
	if reply, ok := s.Replies[prompt]; ok {
		return reply, nil
	}
	return "ok: " + prompt, nil
}
