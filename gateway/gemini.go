package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator implements Generator on the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	config Config
}

// NewGeminiGenerator creates a Gemini client for the configured model
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for the gemini provider")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Model returns the configured model name
func (g *GeminiGenerator) Model() string {
	return g.config.Model
}

// Generate sends prompt as a single text part
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return geminiResponseText(resp)
}

// Close releases the underlying client connection
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// geminiResponseText concatenates the text parts of every candidate
func geminiResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini returned no response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	var finish genai.FinishReason
	for _, cand := range resp.Candidates {
		finish = cand.FinishReason
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("gemini returned empty content (finish reason: %s)", finish)
	}
	return b.String(), nil
}
