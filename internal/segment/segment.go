// Package segment turns raw note text into ordered, citable highlights.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// MinHighlightLen is the minimum trimmed length a highlight must have.
const MinHighlightLen = 3

var (
	blankLine  = regexp.MustCompile(`\n\s*\n`)
	listMarker = regexp.MustCompile(`^[-*•]\s|^[0-9]+[.)]\s`)
)

// Segment splits raw text into highlights: paragraphs become one highlight
// each, and blocks where every line carries a list marker become one
// highlight per line (marker stripped). Units shorter than MinHighlightLen
// after trimming are discarded. IDs are assigned H1..Hn in document order.
// Empty or whitespace-only input yields an empty slice, not an error.
func Segment(raw string) []model.Highlight {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var chunks []string
	for _, block := range blankLine.Split(raw, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}

		var lines []string
		for _, l := range strings.Split(block, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}

		if isBulletBlock(lines) {
			for _, l := range lines {
				chunks = append(chunks, strings.TrimSpace(listMarker.ReplaceAllString(l, "")))
			}
		} else {
			chunks = append(chunks, strings.Join(lines, " "))
		}
	}

	var highlights []model.Highlight
	for _, text := range chunks {
		if len(text) < MinHighlightLen {
			continue
		}
		highlights = append(highlights, model.Highlight{
			ID:   fmt.Sprintf("H%d", len(highlights)+1),
			Text: text,
		})
	}
	return highlights
}

// isBulletBlock reports whether a multi-line block is entirely list items.
func isBulletBlock(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	for _, l := range lines {
		if !listMarker.MatchString(l) {
			return false
		}
	}
	return true
}

// FormatForPrompt renders highlights as the numbered evidence block handed
// to the generation provider.
func FormatForPrompt(highlights []model.Highlight) string {
	parts := make([]string, len(highlights))
	for i, h := range highlights {
		parts[i] = fmt.Sprintf("[%s] %s", h.ID, h.Text)
	}
	return strings.Join(parts, "\n\n")
}
