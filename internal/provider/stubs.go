package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// StubLLMProvider is a stub implementation of LLMProvider for testing
// and offline sessions. It answers with the leading lines of the prompt's document.
type StubLLMProvider struct {
	name   string
	config types.LLMProviderConfig
}

// NewStubLLMProvider creates a new stub LLM provider
func NewStubLLMProvider(config types.LLMProviderConfig) *StubLLMProvider {
	return &StubLLMProvider{
		name:   config.Name,
		config: config,
	}
}

func (s *StubLLMProvider) Name() string {
	return s.name
}

func (s *StubLLMProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Document text follows the last blank line of the prompt
	body := req.Prompt
	if i := strings.LastIndex(body, "\n\n"); i >= 0 {
		body = body[i+2:]
	}
	preview := strings.TrimSpace(body)
	if len(preview) > 80 {
		preview = preview[:80]
	}

	model := req.Model
	if model == "" {
		model = "stub"
	}

	return &GenerateResponse{
		Text:         fmt.Sprintf("Summary: %s", preview),
		Model:        model,
		FinishReason: "stop",
	}, nil
}

func (s *StubLLMProvider) Close() error {
	return nil
}

// StubTTSProvider is a stub implementation of TTSProvider for testing
type StubTTSProvider struct {
	name   string
	config types.TTSProviderConfig
}

// NewStubTTSProvider creates a new stub TTS provider
func NewStubTTSProvider(config types.TTSProviderConfig) *StubTTSProvider {
	return &StubTTSProvider{
		name:   config.Name,
		config: config,
	}
}

func (s *StubTTSProvider) Name() string {
	return s.name
}

func (s *StubTTSProvider) Synthesize(ctx context.Context, req TTSRequest) (*TTSResponse, error) {
	textPreview := req.Text
	if len(textPreview) > 10 {
		textPreview = textPreview[:10]
	}
	return &TTSResponse{
		AudioData: []byte(fmt.Sprintf("STUB_AUDIO_%s_%s", req.Locale, textPreview)),
		Format:    "wav",
	}, nil
}

func (s *StubTTSProvider) Close() error {
	return nil
}
