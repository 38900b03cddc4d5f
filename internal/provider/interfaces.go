package provider

import (
	"context"
)

// LLMProvider defines the interface for text generation providers
type LLMProvider interface {
	// Name returns the provider name
	Name() string

	// Generate sends a single prompt and returns the generated text
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Close cleans up resources
	Close() error
}

// GenerateRequest contains one prompt and its generation settings
type GenerateRequest struct {
	Prompt      string  // Full prompt text
	Model       string  // Model identifier; empty uses the provider's configured model
	Temperature float64 // Sampling temperature
}

// GenerateResponse contains the generated text
type GenerateResponse struct {
	Text         string // Generated text, verbatim
	Model        string // Model that produced the text
	FinishReason string // Provider-specific finish reason, if reported
}

// TTSProvider defines the interface for TTS providers
type TTSProvider interface {
	// Name returns the provider name
	Name() string

	// Synthesize converts text to speech
	Synthesize(ctx context.Context, req TTSRequest) (*TTSResponse, error)

	// Close cleans up resources
	Close() error
}

// TTSRequest contains the text and voice settings for synthesis
type TTSRequest struct {
	Text    string // Text to synthesize
	VoiceID string // Provider-specific voice ID
	Locale  string // BCP-47 locale tag, e.g. "en-US"
}

// TTSResponse contains the synthesized audio
type TTSResponse struct {
	AudioData []byte // Audio file data
	Format    string // Audio format (e.g., "wav", "mp3")
}
