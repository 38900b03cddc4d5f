package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// OpenAITTSProvider implements TTSProvider using OpenAI-compatible TTS APIs
type OpenAITTSProvider struct {
	name       string
	config     types.TTSProviderConfig
	httpClient *http.Client
	model      string
	format     string
	logger     logger.Logger
}

// NewOpenAITTSProvider creates a new OpenAI-compatible TTS provider
func NewOpenAITTSProvider(config types.TTSProviderConfig, log logger.Logger) (*OpenAITTSProvider, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for OpenAI TTS provider")
	}

	model, ok := config.Options["model"]
	if !ok || model == "" {
		return nil, fmt.Errorf("model is required for OpenAI TTS provider (set in options.model)")
	}

	format := config.Options["format"]
	if format == "" {
		format = "mp3"
	}

	return &OpenAITTSProvider{
		name:   config.Name,
		config: config,
		httpClient: &http.Client{
			// Synthesis of a whole summary takes longer than a chat call
			Timeout: optionTimeout(config.Options, 300*time.Second),
		},
		model:  model,
		format: format,
		logger: log,
	}, nil
}

func (o *OpenAITTSProvider) Name() string {
	return o.name
}

// Synthesize converts text to speech using OpenAI-compatible API.
// The API has no language parameter; the model infers it from the input.
func (o *OpenAITTSProvider) Synthesize(ctx context.Context, req TTSRequest) (*TTSResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	voice := req.VoiceID
	if voice == "" {
		voice = o.config.Options["voice"]
	}

	apiReq := ttsAPIRequest{
		Model:          o.model,
		Input:          req.Text,
		Voice:          voice,
		ResponseFormat: o.format,
	}

	audioData, err := o.callTTSAPI(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call TTS API: %w", err)
	}

	return &TTSResponse{
		AudioData: audioData,
		Format:    o.format,
	}, nil
}

func (o *OpenAITTSProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// ttsAPIRequest represents the OpenAI TTS API request structure
type ttsAPIRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// callTTSAPI calls the OpenAI-compatible TTS endpoint
func (o *OpenAITTSProvider) callTTSAPI(ctx context.Context, req ttsAPIRequest) ([]byte, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := o.config.Endpoint
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	endpoint += "audio/speech"

	o.logger.Info(ctx, "[TTS-%s] Request: POST %s", o.name, endpoint)
	o.logger.Debug(ctx, "[TTS-%s] Request payload: model=%s, voice=%s, input_length=%d chars", o.name, req.Model, req.Voice, len(req.Input))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if o.config.APIKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.config.APIKey))
	}

	startTime := time.Now()
	resp, err := o.httpClient.Do(httpReq)
	duration := time.Since(startTime)
	if err != nil {
		o.logger.Error(ctx, "[TTS-%s] Request failed after %v: %v", o.name, duration, err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	o.logger.Info(ctx, "[TTS-%s] Response: %s (took %v)", o.name, resp.Status, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			o.logger.Error(ctx, "[TTS-%s] API error: %s (type: %s, code: %s)", o.name, errResp.Error.Message, errResp.Error.Type, errResp.Error.Code)
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncateForLog(string(body), 500))
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("empty audio in response")
	}

	o.logger.Debug(ctx, "[TTS-%s] Response payload: audio_size=%d bytes", o.name, len(body))
	return body, nil
}
