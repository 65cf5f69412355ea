package llm

import (
	"context"
	"fmt"
)

// Config selects and configures a gateway backend.
type Config struct {
	// Provider is one of "openai", "anthropic", "gemini", "mock".
	Provider string
	BaseURL  string // OpenAI-compatible endpoints only
	APIKey   string
	Model    string
}

// NewGateway creates the Gateway named by cfg.Provider.
func NewGateway(ctx context.Context, cfg Config) (Gateway, error) {
	switch cfg.Provider {
	case "", "openai":
		return New(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropic(cfg.APIKey, cfg.Model)
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	case "mock":
		return NewDemoMock(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
