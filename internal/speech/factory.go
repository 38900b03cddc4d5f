package speech

import (
	"fmt"

	"github.com/unalkalkan/PaperVoice/internal/logger"
	"github.com/unalkalkan/PaperVoice/internal/provider"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// NewVoice creates the configured speech backend. The "none" backend returns nil,
// which a Controller reports as unavailable.
func NewVoice(cfg types.SpeechConfig, registry *provider.Registry, l logger.Logger) (Voice, error) {
	switch cfg.Backend {
	case "system", "":
		return NewSystemVoice(cfg.Command, l), nil
	case "provider":
		tts, err := registry.GetTTS(cfg.TTSProvider)
		if err != nil {
			return nil, fmt.Errorf("speech backend: %w", err)
		}
		return NewProviderVoice(tts, cfg.Voice, cfg.Player, l), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported speech backend: %s", cfg.Backend)
	}
}
