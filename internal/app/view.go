package app

import (
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

// Texts shown by the view
const (
	PlaceholderNoDocument = "Upload a PDF to begin."
	PlaceholderNoSummary  = "Click \"Analyze & Summarize\" to generate the summary from the processed PDF."
	TTSUnavailableNotice  = "Text-to-speech is not available on this system. You can still read the summary."
	StatusProcessingPDF   = "Processing PDF..."
	LabelAnalyze          = "Analyze & Summarize"
	LabelAnalyzing        = "Analyzing..."
	LabelPlay             = "Play Explanation"
	LabelStop             = "Stop Explanation"
)

// ViewState is everything a view needs to render the session
type ViewState struct {
	FileName    string
	Pages       int
	HasDocument bool
	Language    types.Language
	LoadingFile bool
	Analyzing   bool

	Summary         string
	SummaryLanguage types.Language
	Placeholder     string // empty when a summary is shown or work is in progress
	Status          string
	Error           string

	CanSelectFile     bool
	CanChangeLanguage bool
	CanAnalyze        bool
	AnalyzeLabel      string

	ShowPlayback   bool // speech available and a summary exists
	CanPlayback    bool
	Speaking       bool
	Locale         string
	PlaybackLabel  string
	PlaybackNotice string // set when a summary exists but speech is unavailable
}

// View derives the current view state
func (c *Controller) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	busy := c.busyLocked()
	v := ViewState{
		FileName:          c.fileName,
		Language:          c.language,
		LoadingFile:       c.loadingFile,
		Analyzing:         c.analyzing,
		CanSelectFile:     !busy,
		CanChangeLanguage: !busy,
		CanAnalyze:        c.document != nil && !busy && c.analyzeAvailable,
		AnalyzeLabel:      LabelAnalyze,
	}

	if c.document != nil {
		v.HasDocument = true
		v.Pages = c.document.Pages
	}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	if c.loadingFile {
		v.Status = StatusProcessingPDF
	}
	if c.analyzing {
		v.AnalyzeLabel = LabelAnalyzing
	}

	switch {
	case c.summary != nil:
		v.Summary = c.summary.Text
		v.SummaryLanguage = c.summary.Language
	case c.document != nil && !c.analyzing:
		v.Placeholder = PlaceholderNoSummary
	case c.document == nil && !busy:
		v.Placeholder = PlaceholderNoDocument
	}

	if c.summary != nil {
		if c.speechAvailable {
			v.ShowPlayback = true
			v.CanPlayback = !busy
			v.Speaking = c.speaker.IsSpeaking()
			v.PlaybackLabel = LabelPlay
			if v.Speaking {
				v.PlaybackLabel = LabelStop
				v.Locale = c.speaker.Locale()
			}
		} else {
			v.PlaybackNotice = TTSUnavailableNotice
		}
	}

	return v
}
