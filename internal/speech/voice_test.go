package speech

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/provider"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestNewSystemVoice(t *testing.T) {
	t.Run("first available command", func(t *testing.T) {
		stubLookPath(t, map[string]string{"espeak-ng": "/usr/bin/espeak-ng", "espeak": "/usr/bin/espeak"})
		v := NewSystemVoice("", logger.Nop())
		if !v.Available() {
			t.Fatal("Expected voice to be available")
		}
		if v.Command() != "/usr/bin/espeak-ng" {
			t.Errorf("Expected espeak-ng, got %s", v.Command())
		}
	})

	t.Run("configured command", func(t *testing.T) {
		stubLookPath(t, map[string]string{"say": "/usr/bin/say", "festival": "/opt/festival"})
		v := NewSystemVoice("festival", logger.Nop())
		if v.Command() != "/opt/festival" {
			t.Errorf("Expected configured command, got %s", v.Command())
		}
	})

	t.Run("nothing installed", func(t *testing.T) {
		stubLookPath(t, nil)
		v := NewSystemVoice("", logger.Nop())
		if v.Available() {
			t.Error("Expected voice to be unavailable")
		}
		if err := v.Speak(context.Background(), "hi", "en-US"); err == nil {
			t.Error("Expected error speaking without a command")
		}
	})
}

func TestSystemArgs(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   []string
	}{
		{"say", "en-US", []string{"-v", "Samantha", "-f", "-"}},
		{"say", "pt-BR", []string{"-v", "Luciana", "-f", "-"}},
		{"espeak-ng", "pt-BR", []string{"-v", "pt-br", "--stdin"}},
		{"espeak", "en-US", []string{"-v", "en-us", "--stdin"}},
		{"espeak", "fr-FR", []string{"--stdin"}},
		{"cat", "en-US", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.locale, func(t *testing.T) {
			if got := systemArgs(tt.name, tt.locale); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("systemArgs(%q, %q) = %v, want %v", tt.name, tt.locale, got, tt.want)
			}
		})
	}
}

func TestSystemVoiceSpeak(t *testing.T) {
	requireCommand(t, "cat")
	requireCommand(t, "false")

	v := NewSystemVoice("cat", logger.Nop())
	if err := v.Speak(context.Background(), "Intro.", "en-US"); err != nil {
		t.Errorf("Speak failed: %v", err)
	}

	v = NewSystemVoice("false", logger.Nop())
	err := v.Speak(context.Background(), "Intro.", "en-US")
	if err == nil {
		t.Fatal("Expected error from failing command")
	}
	if errors.Is(err, ErrInterrupted) {
		t.Error("Exit status is not an interruption")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewSystemVoice("cat", logger.Nop()).Speak(ctx, "x", "en-US"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProviderVoice(t *testing.T) {
	tts := provider.NewStubTTSProvider(types.TTSProviderConfig{Name: "stub"})

	t.Run("availability", func(t *testing.T) {
		stubLookPath(t, map[string]string{"mpg123": "/usr/bin/mpg123"})
		v := NewProviderVoice(tts, "alloy", "", logger.Nop())
		if !v.Available() {
			t.Error("Expected voice to be available")
		}
		if v.playerName != "mpg123" {
			t.Errorf("Expected mpg123, got %s", v.playerName)
		}

		if NewProviderVoice(nil, "", "", logger.Nop()).Available() {
			t.Error("Expected unavailable without a provider")
		}
	})

	t.Run("no player", func(t *testing.T) {
		stubLookPath(t, nil)
		if NewProviderVoice(tts, "", "", logger.Nop()).Available() {
			t.Error("Expected unavailable without a player")
		}
	})

	t.Run("plays through player", func(t *testing.T) {
		requireCommand(t, "cat")
		v := NewProviderVoice(tts, "", "cat", logger.Nop())
		if err := v.Speak(context.Background(), "This paper discusses X.", "en-US"); err != nil {
			t.Errorf("Speak failed: %v", err)
		}
	})

	t.Run("player failure", func(t *testing.T) {
		requireCommand(t, "false")
		v := NewProviderVoice(tts, "", "false", logger.Nop())
		if err := v.Speak(context.Background(), "text", "en-US"); err == nil {
			t.Error("Expected error from failing player")
		}
	})
}

func TestPlayerArgs(t *testing.T) {
	tests := []struct {
		player string
		stdin  string
	}{
		{"ffplay", "pipe:0"},
		{"mpv", "-"},
		{"mpg123", "-"},
		{"custom-player", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.player, func(t *testing.T) {
			args := playerArgs(tt.player)
			if len(args) == 0 || args[len(args)-1] != tt.stdin {
				t.Errorf("Expected %s to read audio from stdin, got %v", tt.player, args)
			}
		})
	}
}

func TestNewVoice(t *testing.T) {
	registry := provider.NewRegistry()
	registry.RegisterTTS(provider.NewStubTTSProvider(types.TTSProviderConfig{Name: "stub"}))

	t.Run("none", func(t *testing.T) {
		v, err := NewVoice(types.SpeechConfig{Backend: "none"}, registry, logger.Nop())
		if err != nil || v != nil {
			t.Errorf("Expected nil voice, got %v %v", v, err)
		}
	})

	t.Run("system", func(t *testing.T) {
		v, err := NewVoice(types.SpeechConfig{Backend: "system"}, registry, logger.Nop())
		if err != nil {
			t.Fatalf("NewVoice failed: %v", err)
		}
		if _, ok := v.(*SystemVoice); !ok {
			t.Errorf("Expected *SystemVoice, got %T", v)
		}
	})

	t.Run("provider", func(t *testing.T) {
		v, err := NewVoice(types.SpeechConfig{Backend: "provider", TTSProvider: "stub"}, registry, logger.Nop())
		if err != nil {
			t.Fatalf("NewVoice failed: %v", err)
		}
		if _, ok := v.(*ProviderVoice); !ok {
			t.Errorf("Expected *ProviderVoice, got %T", v)
		}
	})

	t.Run("missing provider", func(t *testing.T) {
		if _, err := NewVoice(types.SpeechConfig{Backend: "provider", TTSProvider: "nope"}, registry, logger.Nop()); err == nil {
			t.Error("Expected error for unregistered provider")
		}
	})
}
