package console

import (
	"fmt"
	"strings"

	"github.com/unalkalkan/PaperVoice/internal/app"
	"github.com/unalkalkan/PaperVoice/internal/health"
	"github.com/unalkalkan/PaperVoice/pkg/types"
)

const title = "AI PDF Analyzer & Explainer"

// Render draws the view as plain text
func Render(v app.ViewState) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n== %s ==\n", title)

	if v.Error != "" {
		fmt.Fprintf(&sb, "! %s\n", v.Error)
	}

	switch {
	case v.FileName != "" && v.HasDocument:
		fmt.Fprintf(&sb, "Selected: %s (%d pages)\n", v.FileName, v.Pages)
	case v.FileName != "":
		fmt.Fprintf(&sb, "Selected: %s\n", v.FileName)
	}
	if v.Status != "" {
		fmt.Fprintf(&sb, "%s\n", v.Status)
	}

	sb.WriteString("Output Language:")
	for _, lang := range types.Languages {
		mark := " "
		if lang == v.Language {
			mark = "*"
		}
		fmt.Fprintf(&sb, " [%s] %s (%s)", mark, lang.DisplayName(), lang)
	}
	if !v.CanChangeLanguage {
		sb.WriteString(" (locked)")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%s%s\n", button(v.AnalyzeLabel), disabled(!v.CanAnalyze))

	sb.WriteString("\n-- Summary --\n")
	switch {
	case v.Summary != "":
		sb.WriteString(strings.TrimRight(v.Summary, "\n"))
		sb.WriteString("\n")
	case v.Placeholder != "":
		fmt.Fprintf(&sb, "%s\n", v.Placeholder)
	}

	if v.ShowPlayback {
		sb.WriteString("\n-- Audio Explanation --\n")
		fmt.Fprintf(&sb, "%s%s\n", button(v.PlaybackLabel), disabled(!v.CanPlayback))
		if v.Speaking {
			fmt.Fprintf(&sb, "Speaking (%s)\n", v.Locale)
		}
	}
	if v.PlaybackNotice != "" {
		fmt.Fprintf(&sb, "%s\n", v.PlaybackNotice)
	}

	return sb.String()
}

// RenderHealth draws a health report as one line per check
func RenderHealth(r health.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "status: %s\n", r.Status)
	for _, res := range r.Results() {
		fmt.Fprintf(&sb, "  %-10s %s", res.Name, res.Status)
		if res.Error != "" {
			fmt.Fprintf(&sb, " (%s)", res.Error)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func button(label string) string {
	return "[" + label + "]"
}

func disabled(d bool) string {
	if d {
		return " (disabled)"
	}
	return ""
}
