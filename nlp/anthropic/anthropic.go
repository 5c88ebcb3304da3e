// Package anthropic provides an implementation of core.NLPService using the
// Anthropic Messages API with the same failure tolerance as the openai
// adapter.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/leadmesh/core"
	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/nlp"
)

// Options configures the Anthropic NLP adapter (model id, temperature, max
// tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	Logger      logging.Logger
}

// Service wraps the Anthropic Messages API behind core.NLPService.
type Service struct {
	client *anthropic.Client
	opts   Options
}

// NewService creates a new Anthropic NLP service using the official client.
func NewService(optFns ...func(o *Options)) *Service {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Service{client: &client, opts: opts}
}

// NewServiceFromClient creates a new Anthropic NLP service from an existing client.
func NewServiceFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Service {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   1024,
		Logger:      logging.NoOpLogger{},
	}
}

// ProcessText implements core.NLPService. Provider or parsing failures yield
// an empty result, never an error.
func (s *Service) ProcessText(ctx context.Context, text string, hint map[string]any) (core.NLPResult, error) {
	raw, err := s.complete(ctx, nlp.AnalysisPrompt(text, hint))
	if err != nil {
		s.opts.Logger.Warn("nlp.anthropic.analysis_failed", "error", err.Error())
		return core.NLPResult{}, nil
	}

	res, err := nlp.ParseAnalysis(raw)
	if err != nil {
		s.opts.Logger.Warn("nlp.anthropic.analysis_unparseable", "error", err.Error())
		return core.NLPResult{}, nil
	}

	return res, nil
}

// GenerateResponse implements core.NLPService. Provider failures yield the
// generic apology string, never an error.
func (s *Service) GenerateResponse(ctx context.Context, prompt string, _ map[string]any) (string, error) {
	raw, err := s.complete(ctx, prompt)
	if err != nil {
		s.opts.Logger.Warn("nlp.anthropic.generation_failed", "error", err.Error())
		return nlp.Apology, nil
	}
	return raw, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       s.opts.Model,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: anthropic.Float(s.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text content returned")
	}
	return b.String(), nil
}
