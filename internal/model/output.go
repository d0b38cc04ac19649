package model

import "time"

// SupportKind marks whether a claim is directly stated or lightly inferred
// from the cited highlights.
type SupportKind string

const (
	SupportDirect   SupportKind = "direct"
	SupportInferred SupportKind = "inferred"
)

// OutputItem is one generated summary item with its citations.
type OutputItem struct {
	Text      string      `json:"text"`
	Citations []string    `json:"citations"`         // Highlight IDs, ≥1
	Support   SupportKind `json:"support,omitempty"` // direct | inferred
}

// Output is the envelope validated atomically against its mode's policy.
type Output struct {
	Mode     Mode         `json:"mode"`
	Items    []OutputItem `json:"items"`
	Warnings []string     `json:"warnings,omitempty"`
}

// RetrievalResult is the derived, per-request evidence selection. It is
// recomputed for every generation request and never persisted as
// authoritative.
type RetrievalResult struct {
	EvidenceSet     []Highlight      `json:"evidenceSet"`
	TotalHighlights int              `json:"totalHighlights"`
	RetrievedCount  int              `json:"retrievedCount"`
	Queries         []string         `json:"queries"`
	Scores          []HighlightScore `json:"scores"`
}

// HighlightScore records the maximum relevance score a highlight reached
// across all retrieval queries.
type HighlightScore struct {
	HighlightID string  `json:"highlightId"`
	MaxScore    float64 `json:"maxScore"`
}

// RunMetrics is a read-only snapshot computed once per completed output.
type RunMetrics struct {
	SchemaPass       bool      `json:"schemaPass"`
	WordCount        int       `json:"wordCount"`
	WordLimitPass    bool      `json:"wordLimitPass"`
	CitationCoverage int       `json:"citationCoverage"` // % of evidence set cited, rounded
	ItemCount        int       `json:"itemCount"`
	AvgWordsPerItem  int       `json:"avgWordsPerItem"`
	ValidCitations   bool      `json:"validCitations"`
	MissingCitations []string  `json:"missingCitations"`
	Timestamp        time.Time `json:"timestamp"`
}

// FaithfulnessItem is the per-item outcome of the faithfulness evaluator.
type FaithfulnessItem struct {
	ItemIndex       int      `json:"itemIndex"`
	ItemText        string   `json:"itemText"`
	CitedHighlights []string `json:"citedHighlights"`
	Similarity      float64  `json:"similarity"` // Rounded to 3 decimals
	Flagged         bool     `json:"flagged"`
	Reason          string   `json:"reason,omitempty"`
}

// FaithfulnessSummary aggregates one evaluation run.
type FaithfulnessSummary struct {
	TotalItems    int     `json:"totalItems"`
	FlaggedItems  int     `json:"flaggedItems"`
	AvgSimilarity float64 `json:"avgSimilarity"` // Rounded to 3 decimals
	PassRate      int     `json:"passRate"`      // % of unflagged items, rounded
}

// FaithfulnessReport is the full evaluator output.
type FaithfulnessReport struct {
	Results []FaithfulnessItem  `json:"results"`
	Summary FaithfulnessSummary `json:"summary"`
}
