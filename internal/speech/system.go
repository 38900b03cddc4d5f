package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/unalkalkan/PaperVoice/internal/logger"
)

var lookPath = exec.LookPath

// systemCommands are tried in order when no command is configured
var systemCommands = []string{"say", "espeak-ng", "espeak"}

// systemVoices maps a locale to the voice name each command understands
var systemVoices = map[string]map[string]string{
	"say": {
		"en-US": "Samantha",
		"pt-BR": "Luciana",
	},
	"espeak": {
		"en-US": "en-us",
		"pt-BR": "pt-br",
	},
}

// SystemVoice speaks through the host speech command, reading text from stdin
type SystemVoice struct {
	name   string
	path   string
	logger logger.Logger
}

// NewSystemVoice locates command, or the first available known command when empty
func NewSystemVoice(command string, l logger.Logger) *SystemVoice {
	candidates := systemCommands
	if command != "" {
		candidates = []string{command}
	}

	for _, name := range candidates {
		if p, err := lookPath(name); err == nil {
			return &SystemVoice{name: filepath.Base(name), path: p, logger: l}
		}
	}
	return &SystemVoice{logger: l}
}

// Available reports whether a speech command was found
func (v *SystemVoice) Available() bool {
	return v.path != ""
}

// Command returns the resolved command path
func (v *SystemVoice) Command() string {
	return v.path
}

func (v *SystemVoice) Speak(ctx context.Context, text, locale string) error {
	if v.path == "" {
		return fmt.Errorf("no speech command available")
	}

	cmd := exec.CommandContext(ctx, v.path, systemArgs(v.name, locale)...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if interrupted(err) {
			return fmt.Errorf("%s: %w", v.name, ErrInterrupted)
		}
		return fmt.Errorf("%s failed: %w: %s", v.name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// systemArgs builds the arguments selecting a locale voice with text on stdin
func systemArgs(name, locale string) []string {
	switch name {
	case "say":
		args := []string{"-f", "-"}
		if voice, ok := systemVoices["say"][locale]; ok {
			args = append([]string{"-v", voice}, args...)
		}
		return args
	case "espeak", "espeak-ng":
		args := []string{"--stdin"}
		if voice, ok := systemVoices["espeak"][locale]; ok {
			args = append([]string{"-v", voice}, args...)
		}
		return args
	}
	return nil
}

// interrupted reports whether the process was killed by a signal it did not ask for
func interrupted(err error) bool {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled()
}
