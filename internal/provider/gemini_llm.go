package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
	"google.golang.org/genai"
)

// GeminiLLMProvider implements LLMProvider on the Gemini API or Vertex AI.
// Options: backend ("gemini" or "vertex"), project and location for Vertex.
type GeminiLLMProvider struct {
	name   string
	config types.LLMProviderConfig
	logger logger.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiLLMProvider creates a Gemini provider. The client is created on first use,
// so a missing credential surfaces as a generation error rather than at startup.
func NewGeminiLLMProvider(config types.LLMProviderConfig, log logger.Logger) (*GeminiLLMProvider, error) {
	switch config.Options["backend"] {
	case "", "gemini", "vertex":
	default:
		return nil, fmt.Errorf("invalid gemini backend: %s (must be 'gemini' or 'vertex')", config.Options["backend"])
	}

	return &GeminiLLMProvider{
		name:   config.Name,
		config: config,
		logger: log,
	}, nil
}

func (g *GeminiLLMProvider) Name() string {
	return g.name
}

func (g *GeminiLLMProvider) clientConfig() *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.config.Options["backend"] == "vertex" {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  g.config.Options["project"],
			Location: g.config.Options["location"],
		}
	}
	if g.config.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.Endpoint}
	}
	return cc
}

func (g *GeminiLLMProvider) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	cc := g.clientConfig()
	if cc.Backend == genai.BackendGeminiAPI && cc.APIKey == "" {
		return nil, fmt.Errorf("API key is not configured")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	g.client = client
	return client, nil
}

// Generate sends the prompt as a single text content and concatenates the
// text parts of the first candidate.
func (g *GeminiLLMProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = g.config.Model
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	g.logger.Info(ctx, "[LLM-%s] Request: generateContent model=%s", g.name, model)
	g.logger.Debug(ctx, "[LLM-%s] Request payload: temperature=%.2f, prompt_length=%d chars", g.name, req.Temperature, len(req.Prompt))

	startTime := time.Now()
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	})
	duration := time.Since(startTime)
	if err != nil {
		g.logger.Error(ctx, "[LLM-%s] Request failed after %v: %v", g.name, duration, err)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	g.logger.Info(ctx, "[LLM-%s] Response received (took %v)", g.name, duration)

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	return &GenerateResponse{
		Text:         sb.String(),
		Model:        model,
		FinishReason: string(result.Candidates[0].FinishReason),
	}, nil
}

func (g *GeminiLLMProvider) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client = nil
	return nil
}
