package validate

import (
	"strings"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// CountWords counts whitespace-separated tokens in trimmed text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TotalWords sums word counts across all item texts.
func TotalWords(items []model.OutputItem) int {
	total := 0
	for _, it := range items {
		total += CountWords(it.Text)
	}
	return total
}

// containsAnalogy reports whether the case-folded concatenation of all item
// texts contains at least one analogy marker.
func containsAnalogy(items []model.OutputItem) bool {
	var blob strings.Builder
	for i, it := range items {
		if i > 0 {
			blob.WriteString(" ")
		}
		blob.WriteString(it.Text)
	}
	folded := strings.ToLower(blob.String())
	for _, marker := range model.AnalogyMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}
