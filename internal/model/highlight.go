package model

import "regexp"

// HighlightIDPattern matches highlight IDs: H1, H2, H17, ...
var HighlightIDPattern = regexp.MustCompile(`^H[0-9]+$`)

// Highlight is an atomic, identified span of source text eligible for citation.
// IDs are assigned sequentially at segmentation time and never reassigned;
// downstream stages reference highlights, they never copy-and-mutate them.
type Highlight struct {
	ID       string `json:"highlightId"`        // H1, H2, ...
	Text     string `json:"text"`               // ≥3 chars after trimming
	Page     int    `json:"page,omitempty"`     // Optional source page
	Chapter  string `json:"chapter,omitempty"`  // Optional chapter label
	Location string `json:"location,omitempty"` // Optional free-form locator
}

// HighlightMap indexes highlights by ID for citation resolution.
func HighlightMap(highlights []Highlight) map[string]Highlight {
	m := make(map[string]Highlight, len(highlights))
	for _, h := range highlights {
		m[h.ID] = h
	}
	return m
}
