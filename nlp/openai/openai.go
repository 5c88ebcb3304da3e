// Package openai provides an implementation of core.NLPService using the
// OpenAI Chat Completions API. It adapts LeadMesh's analysis/generation
// contract onto the SDK's message format and honors the contract's failure
// tolerance: transport errors degrade to empty results or a generic apology
// instead of propagating into agent logic.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/nlp"
)

// Options configure the OpenAI NLP adapter. Fields mirror a minimal subset
// of Chat Completion parameters; extend via functional options without
// breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	Logger              logging.Logger
}

// Service wraps the OpenAI Chat Completions API behind core.NLPService.
type Service struct {
	client *openai.Client
	opts   Options
}

// NewService creates a new OpenAI NLP service using the official client
// configured from the environment.
func NewService(optFns ...func(o *Options)) *Service {
	client := openai.NewClient()
	return NewServiceFromClient(&client, optFns...)
}

// NewServiceFromClient creates a new OpenAI NLP service from an existing client.
func NewServiceFromClient(client *openai.Client, optFns ...func(o *Options)) *Service {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 1024,
		Logger:              logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{client: client, opts: opts}
}

// ProcessText implements core.NLPService. Provider or parsing failures yield
// an empty result, never an error.
func (s *Service) ProcessText(ctx context.Context, text string, hint map[string]any) (core.NLPResult, error) {
	raw, err := s.complete(ctx, nlp.AnalysisPrompt(text, hint))
	if err != nil {
		s.opts.Logger.Warn("nlp.openai.analysis_failed", "error", err.Error())
		return core.NLPResult{}, nil
	}

	res, err := nlp.ParseAnalysis(raw)
	if err != nil {
		s.opts.Logger.Warn("nlp.openai.analysis_unparseable", "error", err.Error())
		return core.NLPResult{}, nil
	}

	return res, nil
}

// GenerateResponse implements core.NLPService. Provider failures yield the
// generic apology string, never an error.
func (s *Service) GenerateResponse(ctx context.Context, prompt string, _ map[string]any) (string, error) {
	raw, err := s.complete(ctx, prompt)
	if err != nil {
		s.opts.Logger.Warn("nlp.openai.generation_failed", "error", err.Error())
		return nlp.Apology, nil
	}
	return raw, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(s.opts.Temperature),
		MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
