package app

import (
	"context"
	"errors"
	"sync"

	"github.com/unalkalkan/PaperVoice/internal/health"
	"github.com/unalkalkan/PaperVoice/internal/intake"
	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/parser"
	"github.com/unalkalkan/PaperVoice/internal/speech"
	"github.com/unalkalkan/PaperVoice/internal/summarize"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// Opener resolves a selected source to file bytes
type Opener interface {
	Open(ctx context.Context, source string) (*intake.File, error)
}

// Speaker is the playback surface the controller drives
type Speaker interface {
	Play(text string, lang types.Language) (string, error)
	Stop()
	IsSpeaking() bool
	Locale() string
	Available() bool
	OnEvent(fn func(speech.Event))
}

// Deps wires the controller to its collaborators
type Deps struct {
	Opener     Opener
	Extractor  parser.TextExtractor
	Summarizer summarize.Summarizer
	Speaker    Speaker
	Logger     logger.Logger
	Language   types.Language
	Report     health.Report
}

// Controller owns the session state and serializes every transition on it
type Controller struct {
	opener     Opener
	extractor  parser.TextExtractor
	summarizer summarize.Summarizer
	speaker    Speaker
	logger     logger.Logger

	analyzeAvailable bool
	speechAvailable  bool

	mu          sync.Mutex
	language    types.Language
	fileName    string
	document    *types.Document
	summary     *types.Summary
	err         error
	loadingFile bool
	analyzing   bool
	onChange    func(ViewState)
}

// New creates the controller. A failed summarizer check in the startup report
// disables analysis and surfaces as a configuration error; nothing else is blocked.
func New(deps Deps) *Controller {
	lang := deps.Language
	if lang == "" {
		lang = types.LanguageEnglish
	}

	c := &Controller{
		opener:           deps.Opener,
		extractor:        deps.Extractor,
		summarizer:       deps.Summarizer,
		speaker:          deps.Speaker,
		logger:           deps.Logger,
		analyzeAvailable: deps.Summarizer != nil && deps.Report.Healthy(health.CheckSummarizer),
		speechAvailable:  deps.Speaker != nil && deps.Speaker.Available(),
		language:         lang,
	}

	if !c.analyzeAvailable {
		msg := health.ErrMissingCredential.Error()
		if res, ok := deps.Report.Checks[health.CheckSummarizer]; ok && res.Error != "" {
			msg = res.Error
		}
		c.err = types.NewError(types.KindConfig, msg, nil)
		c.logger.Error(context.Background(), "Analysis disabled: %s", msg)
	}
	if !c.speechAvailable {
		c.logger.Warn(context.Background(), "Speech synthesis not available")
	}

	if c.speaker != nil {
		c.speaker.OnEvent(c.handleSpeechEvent)
	}

	return c
}

// OnChange registers fn to receive the view after every transition
func (c *Controller) OnChange(fn func(ViewState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SelectFile replaces the current document with the one at source.
// Prior document, summary, error and playback are cleared first.
func (c *Controller) SelectFile(ctx context.Context, source string) error {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return types.ErrBusy
	}
	c.stopSpeech()
	c.document = nil
	c.summary = nil
	c.err = nil
	c.fileName = ""
	c.loadingFile = true
	c.mu.Unlock()
	c.notify()

	doc, err := c.load(ctx, source)

	c.mu.Lock()
	c.loadingFile = false
	if err != nil {
		c.err = err
		c.document = nil
		c.fileName = ""
	} else {
		c.document = doc
		c.fileName = doc.FileName
	}
	c.mu.Unlock()
	c.notify()

	return err
}

func (c *Controller) load(ctx context.Context, source string) (*types.Document, error) {
	file, err := c.opener.Open(ctx, source)
	if err != nil {
		c.logger.Warn(ctx, "Open %s failed: %v", source, err)
		return nil, asKind(err, types.KindParse, "Error processing PDF")
	}

	ext, err := c.extractor.Extract(ctx, file.Data)
	if err != nil {
		c.logger.Error(ctx, "Failed to parse PDF %s: %v", file.Name, err)
		return nil, asKind(err, types.KindParse, "Failed to parse PDF")
	}

	c.logger.Info(ctx, "Loaded %s: %d pages, %d chars", file.Name, ext.Pages, len(ext.Text))

	return &types.Document{
		FileName: file.Name,
		Source:   file.Source,
		Pages:    ext.Pages,
		RawText:  ext.Text,
	}, nil
}

// SetLanguage selects the summary language. An existing summary is kept.
func (c *Controller) SetLanguage(lang types.Language) error {
	if _, err := types.ParseLanguage(string(lang)); err != nil {
		return err
	}

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return types.ErrBusy
	}
	c.language = lang
	c.mu.Unlock()
	c.notify()
	return nil
}

// Analyze summarizes the current document in the selected language.
// Playback is stopped before the request is sent.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.busyLocked():
		c.mu.Unlock()
		return types.ErrBusy
	case c.document == nil:
		c.mu.Unlock()
		return types.NewError(types.KindNotReady, "No file content to analyze. Please upload and process a PDF.", nil)
	case !c.analyzeAvailable:
		c.mu.Unlock()
		return types.NewError(types.KindConfig, "AI SDK not initialized. Check API key configuration.", nil)
	}
	c.stopSpeech()
	c.analyzing = true
	c.err = nil
	c.summary = nil
	text := c.document.RawText
	lang := c.language
	c.mu.Unlock()
	c.notify()

	summary, err := c.summarizer.Summarize(ctx, text, lang)

	c.mu.Lock()
	c.analyzing = false
	if err != nil {
		err = asKind(err, types.KindAnalysis, "AI analysis failed")
		c.err = err
		c.summary = nil
	} else {
		c.summary = summary
	}
	c.mu.Unlock()
	c.notify()

	return err
}

// Play reads the summary aloud in the summary's language. The utterance is
// started under the state lock so a concurrent selection or analysis cannot
// clear the summary before it begins.
func (c *Controller) Play() error {
	c.mu.Lock()
	if err := c.playbackReadyLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	_, err := c.speaker.Play(c.summary.Text, c.summary.Language)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.notify()
	return nil
}

// Stop ends playback
func (c *Controller) Stop() error {
	c.mu.Lock()
	if err := c.playbackReadyLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.stopSpeech()
	c.mu.Unlock()
	c.notify()
	return nil
}

// Toggle plays when idle and stops when speaking
func (c *Controller) Toggle() error {
	if c.speechAvailable && c.speaker.IsSpeaking() {
		return c.Stop()
	}
	return c.Play()
}

func (c *Controller) playbackReadyLocked() error {
	switch {
	case !c.speechAvailable:
		return types.NewError(types.KindNotReady, TTSUnavailableNotice, nil)
	case c.summary == nil:
		return types.NewError(types.KindNotReady, "No summary to read aloud. Analyze a PDF first.", nil)
	case c.busyLocked():
		return types.ErrBusy
	}
	return nil
}

func (c *Controller) handleSpeechEvent(ev speech.Event) {
	if ev.Err != nil {
		c.mu.Lock()
		c.err = ev.Err
		c.mu.Unlock()
	}
	c.notify()
}

func (c *Controller) stopSpeech() {
	if c.speechAvailable {
		c.speaker.Stop()
	}
}

func (c *Controller) busyLocked() bool {
	return c.loadingFile || c.analyzing
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(c.View())
	}
}

// asKind keeps a typed error as is and wraps anything else in kind
func asKind(err error, kind types.ErrorKind, message string) error {
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}
	return types.NewError(kind, message, err)
}
