// Package eval scores how well generated items are supported by the
// highlights they cite, independently of how they were generated.
package eval

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/embed"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// Threshold is the similarity below which an item is flagged as a possible
// unsupported claim.
const Threshold = 0.45

// Evaluator re-embeds items and their cited evidence to compute per-item
// support scores.
type Evaluator struct {
	embedder embed.Embedder
}

// NewEvaluator creates an evaluator over the given embedder.
func NewEvaluator(embedder embed.Embedder) *Evaluator {
	return &Evaluator{embedder: embedder}
}

// Evaluate scores each item against the concatenation of its resolvable
// cited highlights. Items whose citations resolve to nothing are flagged
// immediately with similarity 0 and no embedding call. The summary rounds
// average similarity to 3 decimals and reports the unflagged percentage.
func (e *Evaluator) Evaluate(ctx context.Context, items []model.OutputItem, highlights []model.Highlight) (*model.FaithfulnessReport, error) {
	hlMap := model.HighlightMap(highlights)
	results := make([]model.FaithfulnessItem, 0, len(items))

	for i, item := range items {
		var citedTexts []string
		for _, id := range item.Citations {
			if h, ok := hlMap[id]; ok && h.Text != "" {
				citedTexts = append(citedTexts, h.Text)
			}
		}

		if len(citedTexts) == 0 {
			results = append(results, model.FaithfulnessItem{
				ItemIndex:       i,
				ItemText:        item.Text,
				CitedHighlights: item.Citations,
				Similarity:      0,
				Flagged:         true,
				Reason:          "No valid cited highlights found",
			})
			continue
		}

		vecs, err := e.embedder.Embed(ctx, []string{item.Text, strings.Join(citedTexts, " ")})
		if err != nil {
			return nil, fmt.Errorf("embed item %d: %w", i, err)
		}
		if len(vecs) != 2 {
			return nil, fmt.Errorf("embed item %d: got %d vectors, want 2", i, len(vecs))
		}

		sim := embed.Cosine(vecs[0], vecs[1])
		fi := model.FaithfulnessItem{
			ItemIndex:       i,
			ItemText:        item.Text,
			CitedHighlights: item.Citations,
			Similarity:      round3(sim),
			Flagged:         sim < Threshold,
		}
		if fi.Flagged {
			fi.Reason = fmt.Sprintf("Low similarity (%.1f%%) — possible unsupported claim", sim*100)
		}
		results = append(results, fi)
	}

	flagged := 0
	var sum float64
	for _, r := range results {
		sum += r.Similarity
		if r.Flagged {
			flagged++
		}
	}

	summary := model.FaithfulnessSummary{
		TotalItems:   len(results),
		FlaggedItems: flagged,
	}
	if len(results) > 0 {
		summary.AvgSimilarity = round3(sum / float64(len(results)))
		summary.PassRate = int(math.Round(float64(len(results)-flagged) / float64(len(results)) * 100))
	}

	return &model.FaithfulnessReport{Results: results, Summary: summary}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
