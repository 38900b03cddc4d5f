package types

import (
	"fmt"
	"strings"
	"time"
)

// Language is the output language of a summary
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguagePortuguese Language = "pt-BR"
)

// Languages lists the selectable output languages in display order
var Languages = []Language{LanguageEnglish, LanguagePortuguese}

// ParseLanguage accepts "en" or "pt-BR" (case-insensitive)
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language: %q (must be 'en' or 'pt-BR')", s)
}

// Locale returns the speech locale tag used to read text in this language
func (l Language) Locale() string {
	if l == LanguagePortuguese {
		return "pt-BR"
	}
	return "en-US"
}

// DisplayName returns the human-readable name of the language
func (l Language) DisplayName() string {
	if l == LanguagePortuguese {
		return "Português (Brasil)"
	}
	return "English"
}

// Document is the text extracted from the currently selected PDF
type Document struct {
	FileName string `json:"file_name"`
	Source   string `json:"source"`
	Pages    int    `json:"pages"`
	RawText  string `json:"raw_text"`
}

// Summary is the generated summary of a Document
type Summary struct {
	Text        string    `json:"text"`
	Language    Language  `json:"language"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PlaybackState tracks whether a summary is being read aloud
type PlaybackState string

const (
	PlaybackIdle     PlaybackState = "idle"
	PlaybackSpeaking PlaybackState = "speaking"
)
