package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderStory lays the story's words out with hard word wrapping and styles
// them relative to the highlight: already-spoken words are dimmed, the
// current word is highlighted, upcoming words are plain. Widths are measured
// before styling so ANSI sequences never count against the line width.
func renderStory(words []string, highlight, width int) string {
	if len(words) == 0 {
		return ""
	}
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	lineWidth := 0
	for i, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			b.WriteString("\n")
			lineWidth = 0
		} else if lineWidth > 0 {
			b.WriteString(" ")
			lineWidth++
		}

		switch {
		case highlight >= 0 && i == highlight:
			b.WriteString(highlightStyle.Render(word))
		case highlight >= 0 && i < highlight:
			b.WriteString(spokenStyle.Render(word))
		default:
			b.WriteString(word)
		}
		lineWidth += w
	}
	return b.String()
}
