package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

type fakeVoice struct {
	available bool
	started   chan string
	release   chan error
}

func newFakeVoice() *fakeVoice {
	return &fakeVoice{
		available: true,
		started:   make(chan string, 4),
		release:   make(chan error, 4),
	}
}

func (f *fakeVoice) Available() bool { return f.available }

func (f *fakeVoice) Speak(ctx context.Context, text, locale string) error {
	f.started <- locale
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-f.release:
		return err
	}
}

func waitStarted(t *testing.T, f *fakeVoice) string {
	t.Helper()
	select {
	case locale := <-f.started:
		return locale
	case <-time.After(time.Second):
		t.Fatal("Voice was not started")
	}
	return ""
}

func waitEvent(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("No event received")
	}
	return Event{}
}

func expectNoEvent(t *testing.T, events chan Event) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("Unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestController(voice Voice) (*Controller, chan Event) {
	c := NewController(voice, logger.Nop())
	events := make(chan Event, 4)
	c.OnEvent(func(ev Event) { events <- ev })
	return c, events
}

func TestControllerNaturalCompletion(t *testing.T) {
	voice := newFakeVoice()
	c, events := newTestController(voice)
	defer c.Close()

	id, err := c.Play("This paper discusses X.", types.LanguageEnglish)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if id == "" {
		t.Error("Expected utterance id")
	}
	if locale := waitStarted(t, voice); locale != "en-US" {
		t.Errorf("Expected locale en-US, got %s", locale)
	}
	if !c.IsSpeaking() || c.State() != types.PlaybackSpeaking {
		t.Error("Expected Speaking")
	}
	if c.Locale() != "en-US" {
		t.Errorf("Expected locale en-US, got %s", c.Locale())
	}

	voice.release <- nil
	ev := waitEvent(t, events)
	if ev.UtteranceID != id || ev.Err != nil || ev.State != types.PlaybackIdle {
		t.Errorf("Unexpected completion event %+v", ev)
	}
	if c.IsSpeaking() {
		t.Error("Expected Idle after natural completion")
	}
}

func TestControllerStop(t *testing.T) {
	voice := newFakeVoice()
	c, events := newTestController(voice)
	defer c.Close()

	if _, err := c.Play("text", types.LanguagePortuguese); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if locale := waitStarted(t, voice); locale != "pt-BR" {
		t.Errorf("Expected locale pt-BR, got %s", locale)
	}

	c.Stop()
	if c.State() != types.PlaybackIdle {
		t.Errorf("Expected Idle after stop, got %s", c.State())
	}
	// Cancellation is benign and not reported
	expectNoEvent(t, events)

	// Stop while idle is a no-op
	c.Stop()
	if c.IsSpeaking() {
		t.Error("Expected Idle")
	}
}

func TestControllerSupersede(t *testing.T) {
	voice := newFakeVoice()
	c, events := newTestController(voice)
	defer c.Close()

	first, _ := c.Play("first", types.LanguageEnglish)
	waitStarted(t, voice)
	second, _ := c.Play("second", types.LanguagePortuguese)
	waitStarted(t, voice)

	if first == second {
		t.Fatal("Expected distinct utterance ids")
	}
	// The cancelled first utterance must not flip the state
	expectNoEvent(t, events)
	if !c.IsSpeaking() || c.Locale() != "pt-BR" {
		t.Errorf("Expected second utterance speaking in pt-BR, got %s %s", c.State(), c.Locale())
	}

	voice.release <- nil
	ev := waitEvent(t, events)
	if ev.UtteranceID != second {
		t.Errorf("Expected completion of %s, got %s", second, ev.UtteranceID)
	}
}

func TestControllerErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError bool
	}{
		{"genuine failure", errors.New("audio device busy"), true},
		{"interrupted", ErrInterrupted, false},
		{"cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voice := newFakeVoice()
			c, events := newTestController(voice)
			defer c.Close()

			c.Play("text", types.LanguageEnglish)
			waitStarted(t, voice)
			voice.release <- tt.err

			ev := waitEvent(t, events)
			if (ev.Err != nil) != tt.wantError {
				t.Errorf("Event error = %v, wantError %v", ev.Err, tt.wantError)
			}
			if tt.wantError && !errors.Is(ev.Err, types.ErrPlayback) {
				t.Errorf("Expected playback error, got %v", ev.Err)
			}
			if c.State() != types.PlaybackIdle {
				t.Errorf("Expected Idle, got %s", c.State())
			}
		})
	}
}

func TestControllerFailureKeepsCause(t *testing.T) {
	voice := newFakeVoice()
	c, events := newTestController(voice)
	defer c.Close()

	cause := errors.New("player exited with status 1")
	if _, err := c.Play("text", types.LanguagePortuguese); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	waitStarted(t, voice)
	voice.release <- cause

	ev := waitEvent(t, events)
	var perr *types.Error
	if !errors.As(ev.Err, &perr) {
		t.Fatalf("Expected *types.Error, got %v", ev.Err)
	}
	if perr.Message != "Audio playback error" {
		t.Errorf("Expected message 'Audio playback error', got %q", perr.Message)
	}
	if !errors.Is(ev.Err, cause) {
		t.Errorf("Expected cause to be kept, got %v", ev.Err)
	}
	if c.IsSpeaking() {
		t.Error("Controller should be idle after a failure")
	}
}

func TestControllerUnavailable(t *testing.T) {
	for name, voice := range map[string]Voice{
		"nil voice":         nil,
		"unavailable voice": &fakeVoice{available: false},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewController(voice, logger.Nop())
			if c.Available() {
				t.Error("Expected unavailable")
			}
			if _, err := c.Play("text", types.LanguageEnglish); !errors.Is(err, types.ErrNotReady) {
				t.Errorf("Expected not ready error, got %v", err)
			}
		})
	}
}

func TestControllerEmptyText(t *testing.T) {
	c := NewController(newFakeVoice(), logger.Nop())
	if _, err := c.Play("   ", types.LanguageEnglish); err == nil {
		t.Error("Expected error for empty text")
	}
	if c.IsSpeaking() {
		t.Error("Expected Idle")
	}
}
