package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator sends a single prompt to a hosted model and returns its text reply
type Generator interface {
	// Name returns the provider name
	Name() string

	// Model returns the model the provider is configured for
	Model() string

	// Generate returns the model's reply to prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds model provider configuration
type Config struct {
	// Provider name: "gemini" or "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the hosted endpoint
	APIKey string

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers)
	BaseURL string

	// Temperature for generation
	Temperature float32

	// MaxTokens caps the reply length (0 = provider default)
	MaxTokens int

	// Timeout for a single call
	Timeout time.Duration
}

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultTimeout     = 60 * time.Second
)

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       defaultGeminiModel,
		Temperature: 0.3,
		Timeout:     defaultTimeout,
	}
}

// NewGenerator creates a generator for the configured provider
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gemini", "google", "":
		return NewGeminiGenerator(ctx, cfg)
	case "openai":
		return NewOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown model provider: %s (supported: gemini, openai)", cfg.Provider)
	}
}
