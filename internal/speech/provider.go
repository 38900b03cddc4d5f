package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/provider"
)

// players are tried in order when no player is configured
var players = []string{"ffplay", "mpv", "mpg123"}

// ProviderVoice synthesizes audio with a TTS provider and plays it with an external player
type ProviderVoice struct {
	tts        provider.TTSProvider
	voiceID    string
	playerName string
	playerPath string
	logger     logger.Logger
}

// NewProviderVoice locates player, or the first available known player when empty
func NewProviderVoice(tts provider.TTSProvider, voiceID, player string, l logger.Logger) *ProviderVoice {
	v := &ProviderVoice{tts: tts, voiceID: voiceID, logger: l}

	candidates := players
	if player != "" {
		candidates = []string{player}
	}
	for _, name := range candidates {
		if p, err := lookPath(name); err == nil {
			v.playerName = filepath.Base(name)
			v.playerPath = p
			break
		}
	}
	return v
}

// Available reports whether both a provider and a player are present
func (v *ProviderVoice) Available() bool {
	return v.tts != nil && v.playerPath != ""
}

func (v *ProviderVoice) Speak(ctx context.Context, text, locale string) error {
	if !v.Available() {
		return fmt.Errorf("no TTS provider or audio player available")
	}

	resp, err := v.tts.Synthesize(ctx, provider.TTSRequest{
		Text:    text,
		VoiceID: v.voiceID,
		Locale:  locale,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("synthesize: %w", err)
	}

	v.logger.Debug(ctx, "Playing %d bytes of %s audio with %s", len(resp.AudioData), resp.Format, v.playerName)
	return v.play(ctx, resp.AudioData)
}

// play pipes audio to the player on stdin; nothing is written to disk
func (v *ProviderVoice) play(ctx context.Context, audio []byte) error {
	cmd := exec.CommandContext(ctx, v.playerPath, playerArgs(v.playerName)...)
	cmd.Stdin = bytes.NewReader(audio)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if interrupted(err) {
			return fmt.Errorf("%s: %w", v.playerName, ErrInterrupted)
		}
		return fmt.Errorf("%s failed: %w: %s", v.playerName, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// playerArgs returns the arguments that make a player read audio from stdin
func playerArgs(name string) []string {
	switch name {
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "error", "-i", "pipe:0"}
	case "mpv":
		return []string{"--no-video", "--really-quiet", "-"}
	case "mpg123":
		return []string{"-q", "-"}
	}
	return []string{"-"}
}
