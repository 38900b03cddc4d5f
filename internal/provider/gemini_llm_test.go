package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

func TestNewGeminiLLMProvider(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		provider, err := NewGeminiLLMProvider(types.LLMProviderConfig{
			Name:   "gemini",
			APIKey: "test-key",
		}, logger.Nop())
		if err != nil {
			t.Fatalf("Failed to create provider: %v", err)
		}
		if provider.Name() != "gemini" {
			t.Errorf("Expected name 'gemini', got '%s'", provider.Name())
		}
	})

	t.Run("InvalidBackend", func(t *testing.T) {
		_, err := NewGeminiLLMProvider(types.LLMProviderConfig{
			Name:    "gemini",
			Options: map[string]string{"backend": "azure"},
		}, logger.Nop())
		if err == nil {
			t.Error("Expected error for invalid backend")
		}
	})

	t.Run("VertexConfig", func(t *testing.T) {
		provider, err := NewGeminiLLMProvider(types.LLMProviderConfig{
			Name: "vertex",
			Options: map[string]string{
				"backend":  "vertex",
				"project":  "my-project",
				"location": "us-central1",
			},
		}, logger.Nop())
		if err != nil {
			t.Fatalf("Failed to create provider: %v", err)
		}
		cc := provider.clientConfig()
		if cc.Project != "my-project" || cc.Location != "us-central1" {
			t.Errorf("Expected vertex project and location, got %q %q", cc.Project, cc.Location)
		}
		if cc.APIKey != "" {
			t.Error("Vertex backend should not carry an API key")
		}
	})
}

func TestGeminiLLMProvider_Generate(t *testing.T) {
	t.Run("SuccessfulGeneration", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				t.Errorf("Expected POST request, got %s", r.Method)
			}
			if !strings.HasSuffix(r.URL.Path, "gemini-test:generateContent") {
				t.Errorf("Expected generateContent endpoint, got %s", r.URL.Path)
			}

			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), "Summarize this") {
				t.Errorf("Expected prompt in request body, got %s", string(body))
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{
						"content": map[string]any{
							"role": "model",
							"parts": []map[string]any{
								{"text": "Key insights: "},
								{"text": "one, two."},
							},
						},
						"finishReason": "STOP",
					},
				},
			})
		}))
		defer server.Close()

		provider, err := NewGeminiLLMProvider(types.LLMProviderConfig{
			Name:     "gemini",
			Endpoint: server.URL,
			APIKey:   "test-key",
		}, logger.Nop())
		if err != nil {
			t.Fatalf("Failed to create provider: %v", err)
		}
		defer provider.Close()

		resp, err := provider.Generate(context.Background(), GenerateRequest{
			Prompt:      "Summarize this",
			Model:       "gemini-test",
			Temperature: 0.5,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if resp.Text != "Key insights: one, two." {
			t.Errorf("Expected concatenated parts, got '%s'", resp.Text)
		}
		if resp.FinishReason != "STOP" {
			t.Errorf("Expected finish reason 'STOP', got '%s'", resp.FinishReason)
		}
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates": []}`))
		}))
		defer server.Close()

		provider, err := NewGeminiLLMProvider(types.LLMProviderConfig{
			Name:     "gemini",
			Endpoint: server.URL,
			APIKey:   "test-key",
		}, logger.Nop())
		if err != nil {
			t.Fatalf("Failed to create provider: %v", err)
		}

		if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "x", Model: "gemini-test"}); err == nil {
			t.Error("Expected error for empty candidates")
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		provider, err := NewGeminiLLMProvider(types.LLMProviderConfig{Name: "gemini"}, logger.Nop())
		if err != nil {
			t.Fatalf("Failed to create provider: %v", err)
		}

		_, err = provider.Generate(context.Background(), GenerateRequest{Prompt: "x", Model: "gemini-test"})
		if err == nil {
			t.Fatal("Expected error without API key")
		}
		if !strings.Contains(err.Error(), "API key") {
			t.Errorf("Expected API key error, got: %v", err)
		}
	})

	t.Run("MissingModel", func(t *testing.T) {
		provider, err := NewGeminiLLMProvider(types.LLMProviderConfig{Name: "gemini", APIKey: "k"}, logger.Nop())
		if err != nil {
			t.Fatalf("Failed to create provider: %v", err)
		}

		if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "x"}); err == nil {
			t.Error("Expected error without model")
		}
	})
}
