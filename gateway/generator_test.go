package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
)

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), Config{Provider: "llama-on-a-toaster", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	for _, provider := range []string{"gemini", "openai"} {
		if _, err := NewGenerator(context.Background(), Config{Provider: provider}); err == nil {
			t.Errorf("%s: expected error without API key", provider)
		}
	}
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "Summarize this." {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "The court upheld the conviction.",
					},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	if gen.Model() != defaultOpenAIModel {
		t.Errorf("Model() = %s, want %s", gen.Model(), defaultOpenAIModel)
	}

	got, err := gen.Generate(context.Background(), "Summarize this.")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "The court upheld the conviction." {
		t.Errorf("Unexpected reply: %s", got)
	}
}

func TestOpenAIGenerator_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-empty"})
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gen.Generate(context.Background(), "hi"); err == nil {
		t.Error("expected error when no choices are returned")
	}
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = gen.Generate(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "OpenAI API error") {
		t.Errorf("expected wrapped API error, got %v", err)
	}
}

func TestGeminiResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{
			name:    "nil",
			resp:    nil,
			wantErr: true,
		},
		{
			name: "blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			wantErr: true,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name: "text parts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []genai.Part{genai.Text("The appeal "), genai.Text("is allowed.")}}},
				},
			},
			want: "The appeal is allowed.",
		},
		{
			name: "empty content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := geminiResponseText(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
