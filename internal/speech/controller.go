package speech

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// ErrInterrupted is returned by a Voice when playback was cut off by the host
// rather than failing. It is treated like cancellation.
var ErrInterrupted = errors.New("speech interrupted")

// Voice speaks text aloud in a locale and blocks until done or ctx is cancelled
type Voice interface {
	Speak(ctx context.Context, text, locale string) error
	Available() bool
}

// Event reports an asynchronous end of an utterance
type Event struct {
	UtteranceID string
	State       types.PlaybackState
	Err         error // non-nil only for playback errors
}

// Controller owns the single active utterance.
// At most one utterance is active; starting another cancels the previous one.
type Controller struct {
	voice     Voice
	available bool
	logger    logger.Logger

	mu      sync.Mutex
	state   types.PlaybackState
	locale  string
	current string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	onEvent func(Event)
}

// NewController creates a controller. Availability is detected once here.
func NewController(voice Voice, l logger.Logger) *Controller {
	return &Controller{
		voice:     voice,
		available: voice != nil && voice.Available(),
		logger:    l,
		state:     types.PlaybackIdle,
	}
}

// OnEvent registers fn to receive utterance endings. fn is called without locks held.
func (c *Controller) OnEvent(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvent = fn
}

// Available reports whether playback can be offered at all
func (c *Controller) Available() bool {
	return c.available
}

// Play cancels any active utterance and starts speaking text in lang's locale
func (c *Controller) Play(text string, lang types.Language) (string, error) {
	if !c.available {
		return "", types.NewError(types.KindNotReady, "Text-to-speech is not available.", nil)
	}
	if strings.TrimSpace(text) == "" {
		return "", types.NewError(types.KindNotReady, "Nothing to read aloud.", nil)
	}

	locale := lang.Locale()

	c.mu.Lock()
	c.stopLocked()
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	c.current = id
	c.cancel = cancel
	c.state = types.PlaybackSpeaking
	c.locale = locale
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug(ctx, "Utterance %s started (%s, %d chars)", id, locale, len(text))

	go c.run(ctx, id, text, locale)
	return id, nil
}

func (c *Controller) run(ctx context.Context, id, text, locale string) {
	defer c.wg.Done()

	err := c.voice.Speak(ctx, text, locale)
	// Classify before cancel below makes ctx.Err non-nil
	benign := err != nil && isBenign(ctx, err)

	c.mu.Lock()
	if c.current != id {
		// Superseded or stopped; the newer state stands
		c.mu.Unlock()
		c.logger.Debug(ctx, "Utterance %s ended after cancellation: %v", id, err)
		return
	}
	c.cancel()
	c.current = ""
	c.cancel = nil
	c.state = types.PlaybackIdle
	onEvent := c.onEvent
	c.mu.Unlock()

	ev := Event{UtteranceID: id, State: types.PlaybackIdle}
	switch {
	case err == nil:
		c.logger.Debug(ctx, "Utterance %s finished", id)
	case benign:
		c.logger.Info(ctx, "Utterance %s interrupted: %v", id, err)
	default:
		c.logger.Error(ctx, "Utterance %s failed: %v", id, err)
		ev.Err = types.NewError(types.KindPlayback, "Audio playback error", err)
	}

	if onEvent != nil {
		onEvent(ev)
	}
}

// Stop cancels the active utterance, if any
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = nil
	c.current = ""
	c.state = types.PlaybackIdle
}

// IsSpeaking reports whether an utterance is active
func (c *Controller) IsSpeaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == types.PlaybackSpeaking
}

// State returns the playback state
func (c *Controller) State() types.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Locale returns the locale of the most recent utterance
func (c *Controller) Locale() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

// Close stops playback and waits for speaking goroutines to return
func (c *Controller) Close() {
	c.Stop()
	c.wg.Wait()
}

func isBenign(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInterrupted)
}
