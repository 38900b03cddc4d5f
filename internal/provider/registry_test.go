package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	llmProvider := NewStubLLMProvider(types.LLMProviderConfig{Name: "test-llm", Enabled: true})
	ttsProvider := NewStubTTSProvider(types.TTSProviderConfig{Name: "test-tts", Enabled: true})

	t.Run("RegisterLLM", func(t *testing.T) {
		err := registry.RegisterLLM(llmProvider)
		if err != nil {
			t.Fatalf("Failed to register LLM provider: %v", err)
		}

		// Try to register again - should fail
		err = registry.RegisterLLM(llmProvider)
		if err == nil {
			t.Error("Expected error when registering duplicate provider")
		}
	})

	t.Run("RegisterTTS", func(t *testing.T) {
		err := registry.RegisterTTS(ttsProvider)
		if err != nil {
			t.Fatalf("Failed to register TTS provider: %v", err)
		}
	})

	t.Run("GetLLM", func(t *testing.T) {
		provider, err := registry.GetLLM("test-llm")
		if err != nil {
			t.Fatalf("Failed to get LLM provider: %v", err)
		}
		if provider.Name() != "test-llm" {
			t.Errorf("Expected name 'test-llm', got '%s'", provider.Name())
		}

		_, err = registry.GetLLM("non-existent")
		if err == nil {
			t.Error("Expected error for non-existent provider")
		}
	})

	t.Run("GetTTS", func(t *testing.T) {
		provider, err := registry.GetTTS("test-tts")
		if err != nil {
			t.Fatalf("Failed to get TTS provider: %v", err)
		}
		if provider.Name() != "test-tts" {
			t.Errorf("Expected name 'test-tts', got '%s'", provider.Name())
		}
	})

	t.Run("List", func(t *testing.T) {
		llmList := registry.ListLLM()
		if len(llmList) != 1 || llmList[0] != "test-llm" {
			t.Errorf("Expected LLM list ['test-llm'], got %v", llmList)
		}

		ttsList := registry.ListTTS()
		if len(ttsList) != 1 || ttsList[0] != "test-tts" {
			t.Errorf("Expected TTS list ['test-tts'], got %v", ttsList)
		}
	})

	t.Run("Close", func(t *testing.T) {
		err := registry.Close()
		if err != nil {
			t.Fatalf("Failed to close registry: %v", err)
		}
	})
}

func TestStubProviders(t *testing.T) {
	ctx := context.Background()

	t.Run("StubLLMProvider", func(t *testing.T) {
		provider := NewStubLLMProvider(types.LLMProviderConfig{Name: "test-llm", Enabled: true})

		resp, err := provider.Generate(ctx, GenerateRequest{
			Prompt: "Provide the summary in English.\n\nPlease summarize:\n\nIntro. \nConclusion. \n",
			Model:  "m",
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !strings.HasPrefix(resp.Text, "Summary: Intro.") {
			t.Errorf("Expected summary of document text, got '%s'", resp.Text)
		}
		if resp.Model != "m" {
			t.Errorf("Expected model 'm', got '%s'", resp.Model)
		}
	})

	t.Run("StubLLMProviderCancelled", func(t *testing.T) {
		provider := NewStubLLMProvider(types.LLMProviderConfig{Name: "test-llm"})
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := provider.Generate(cctx, GenerateRequest{Prompt: "x"}); err == nil {
			t.Error("Expected error for cancelled context")
		}
	})

	t.Run("StubTTSProvider", func(t *testing.T) {
		provider := NewStubTTSProvider(types.TTSProviderConfig{Name: "test-tts", Enabled: true})

		resp, err := provider.Synthesize(ctx, TTSRequest{
			Text:    "Test text",
			VoiceID: "test-voice",
			Locale:  "pt-BR",
		})
		if err != nil {
			t.Fatalf("Synthesize failed: %v", err)
		}
		if len(resp.AudioData) == 0 {
			t.Error("Expected non-empty audio data")
		}
		if resp.Format != "wav" {
			t.Errorf("Expected format 'wav', got '%s'", resp.Format)
		}
	})
}

func TestInitializeProviders(t *testing.T) {
	registry := NewRegistry()

	cfg := types.ProvidersConfig{
		LLM: []types.LLMProviderConfig{
			{Name: "llm1", Type: "stub", Enabled: true},
			{Name: "llm2", Type: "stub", Enabled: false}, // Should not be registered
			{Name: "gemini", Type: "gemini", Enabled: true},
			{Name: "openai", Type: "openai", Enabled: true, Endpoint: "http://localhost:1234/v1", Model: "gpt-4"},
		},
		TTS: []types.TTSProviderConfig{
			{Name: "tts1", Type: "stub", Enabled: true},
		},
	}

	err := registry.InitializeProviders(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("InitializeProviders failed: %v", err)
	}

	llmList := registry.ListLLM()
	if len(llmList) != 3 {
		t.Errorf("Expected 3 LLM providers, got %v", llmList)
	}
	if _, err := registry.GetLLM("llm2"); err == nil {
		t.Error("Disabled provider should not be registered")
	}

	ttsList := registry.ListTTS()
	if len(ttsList) != 1 || ttsList[0] != "tts1" {
		t.Errorf("Expected TTS list ['tts1'], got %v", ttsList)
	}
}

func TestInitializeProvidersErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.ProvidersConfig
	}{
		{
			name: "unknown llm type",
			cfg: types.ProvidersConfig{
				LLM: []types.LLMProviderConfig{{Name: "x", Type: "claude", Enabled: true}},
			},
		},
		{
			name: "openai without endpoint",
			cfg: types.ProvidersConfig{
				LLM: []types.LLMProviderConfig{{Name: "x", Type: "openai", Enabled: true, Model: "gpt-4"}},
			},
		},
		{
			name: "unknown tts type",
			cfg: types.ProvidersConfig{
				TTS: []types.TTSProviderConfig{{Name: "x", Type: "polly", Enabled: true}},
			},
		},
		{
			name: "duplicate names",
			cfg: types.ProvidersConfig{
				LLM: []types.LLMProviderConfig{
					{Name: "x", Type: "stub", Enabled: true},
					{Name: "x", Type: "stub", Enabled: true},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRegistry().InitializeProviders(tt.cfg, logger.Nop()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
