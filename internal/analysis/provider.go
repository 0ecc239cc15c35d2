// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

// Provider abstracts the generative model so tests can supply a fake. Request
// sends one prompt with the expected reply schema and returns the raw JSON
// text of the reply.
type Provider interface {
	Request(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, prompt string, schema *Schema) (string, error)

// Request calls f.
func (f ProviderFunc) Request(ctx context.Context, prompt string, schema *Schema) (string, error) {
	return f(ctx, prompt, schema)
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg types.AIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	var client *http.Client
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	switch cfg.Provider {
	case types.ProviderGemini, "":
		return NewGeminiProvider(ctx, cfg, client)
	case types.ProviderOpenAI:
		return NewOpenAIProvider(cfg, client), nil
	case types.ProviderAnthropic:
		return &ClaudeProvider{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			UserAgent:   cfg.UserAgent,
			Temperature: cfg.Temperature,
			Client:      client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
