package summarize

import (
	"context"
	"errors"
	"time"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/provider"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

const instruction = "\n\nPlease summarize the following document (extracted from a PDF) and provide key insights:\n\n"

var directives = map[types.Language]string{
	types.LanguageEnglish:    "Provide the summary in English.",
	types.LanguagePortuguese: "Forneça o resumo em Português do Brasil.",
}

// Summarizer turns document text into a summary in the requested language
type Summarizer interface {
	Summarize(ctx context.Context, text string, lang types.Language) (*types.Summary, error)
}

// Directive returns the language instruction prefixed to the prompt
func Directive(lang types.Language) string {
	if d, ok := directives[lang]; ok {
		return d
	}
	return directives[types.LanguageEnglish]
}

// BuildPrompt assembles directive, instruction and document text
func BuildPrompt(text string, lang types.Language) string {
	return Directive(lang) + instruction + text
}

// Client submits one generation request per summary to an LLM provider
type Client struct {
	llm         provider.LLMProvider
	model       string
	temperature float64
	logger      logger.Logger
	now         func() time.Time
}

// New creates a summarization client over llm with a fixed model and temperature
func New(llm provider.LLMProvider, model string, temperature float64, l logger.Logger) *Client {
	return &Client{
		llm:         llm,
		model:       model,
		temperature: temperature,
		logger:      l,
		now:         time.Now,
	}
}

// Summarize returns the generated text verbatim. Every failure is an analysis error.
func (c *Client) Summarize(ctx context.Context, text string, lang types.Language) (*types.Summary, error) {
	if text == "" {
		return nil, types.NewError(types.KindAnalysis, "AI analysis failed", errors.New("document has no text"))
	}

	prompt := BuildPrompt(text, lang)
	c.logger.Info(ctx, "Summarizing %d chars in %s with %s", len(text), lang, c.model)

	resp, err := c.llm.Generate(ctx, provider.GenerateRequest{
		Prompt:      prompt,
		Model:       c.model,
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.Error(ctx, "Summarization failed: %v", err)
		return nil, types.NewError(types.KindAnalysis, "AI analysis failed", err)
	}
	if resp == nil || resp.Text == "" {
		return nil, types.NewError(types.KindAnalysis, "AI analysis failed", errors.New("empty response"))
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &types.Summary{
		Text:        resp.Text,
		Language:    lang,
		Model:       model,
		GeneratedAt: c.now(),
	}, nil
}
