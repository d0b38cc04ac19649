// Package retrieve narrows the highlight set to the evidence most relevant
// to a summary mode before generation.
package retrieve

import (
	"context"
	"fmt"
	"sort"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/embed"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

const (
	// DefaultTopK is the per-query retention limit.
	DefaultTopK = 5
	// DefaultThreshold is the minimum similarity a highlight must reach.
	DefaultThreshold = 0.15
	// shortCircuitMax is the highlight count at or below which retrieval
	// is skipped and everything is kept.
	shortCircuitMax = 6
)

// Retriever selects evidence with a multi-query max-score top-k union.
type Retriever struct {
	embedder  embed.Embedder
	topK      int
	threshold float64
}

// NewRetriever creates a retriever over the given embedder. topK <= 0 and
// threshold <= 0 select the defaults.
func NewRetriever(embedder embed.Embedder, topK int, threshold float64) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Retriever{
		embedder:  embedder,
		topK:      topK,
		threshold: threshold,
	}
}

// Retrieve scores every highlight against each of the mode's queries and
// keeps, per query, the top-k scoring at or above the threshold. A
// highlight retained by several queries records its maximum score. The
// evidence set keeps original document order; Scores is sorted by score.
// With shortCircuitMax or fewer highlights everything is kept at score 1.
func (r *Retriever) Retrieve(ctx context.Context, highlights []model.Highlight, mode model.Mode) (*model.RetrievalResult, error) {
	queries, ok := QueryPlans[mode]
	if !ok {
		return nil, fmt.Errorf("no query plan for mode %q", mode)
	}

	if len(highlights) <= shortCircuitMax {
		scores := make([]model.HighlightScore, len(highlights))
		for i, h := range highlights {
			scores[i] = model.HighlightScore{HighlightID: h.ID, MaxScore: 1}
		}
		return &model.RetrievalResult{
			EvidenceSet:     highlights,
			TotalHighlights: len(highlights),
			RetrievedCount:  len(highlights),
			Queries:         queries,
			Scores:          scores,
		}, nil
	}

	// One batch for highlights and queries so both go through the same
	// provider (mixed providers would make the scores meaningless).
	texts := make([]string, 0, len(highlights)+len(queries))
	for _, h := range highlights {
		texts = append(texts, h.Text)
	}
	texts = append(texts, queries...)

	vecs, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed highlights and queries: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vecs), len(texts))
	}

	hlVecs := vecs[:len(highlights)]
	queryVecs := vecs[len(highlights):]

	maxScore := make(map[string]float64)
	for _, qv := range queryVecs {
		type scored struct {
			id    string
			score float64
		}
		ranked := make([]scored, len(highlights))
		for i, hv := range hlVecs {
			ranked[i] = scored{id: highlights[i].ID, score: embed.Cosine(qv, hv)}
		}
		sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

		for i := 0; i < r.topK && i < len(ranked); i++ {
			if ranked[i].score < r.threshold {
				continue
			}
			if ranked[i].score > maxScore[ranked[i].id] {
				maxScore[ranked[i].id] = ranked[i].score
			}
		}
	}

	// Materialize in document order before sorting so equal scores keep a
	// deterministic order across runs.
	scores := make([]model.HighlightScore, 0, len(maxScore))
	var evidence []model.Highlight
	for _, h := range highlights {
		if s, kept := maxScore[h.ID]; kept {
			scores = append(scores, model.HighlightScore{HighlightID: h.ID, MaxScore: s})
			evidence = append(evidence, h)
		}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].MaxScore > scores[b].MaxScore })

	return &model.RetrievalResult{
		EvidenceSet:     evidence,
		TotalHighlights: len(highlights),
		RetrievedCount:  len(evidence),
		Queries:         queries,
		Scores:          scores,
	}, nil
}
