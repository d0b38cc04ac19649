package retrieve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// vectorEmbedder returns a fixed vector per exact text
type vectorEmbedder struct {
	vectors map[string][]float64
}

func (e *vectorEmbedder) Name() string { return "fixed" }

func (e *vectorEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			v = []float64{0, 0, 1}
		}
		vecs[i] = v
	}
	return vecs, nil
}

type failingEmbedder struct{}

func (e *failingEmbedder) Name() string { return "failing" }

func (e *failingEmbedder) Embed(_ context.Context, _ []string) ([][]float64, error) {
	return nil, errors.New("embedder down")
}

func highlights(n int) []model.Highlight {
	hs := make([]model.Highlight, n)
	for i := range hs {
		hs[i] = model.Highlight{
			ID:   fmt.Sprintf("H%d", i+1),
			Text: fmt.Sprintf("highlight number %d", i+1),
		}
	}
	return hs
}

func TestRetrieve_ShortCircuit(t *testing.T) {
	// At most 6 highlights: keep everything, no embedding calls.
	r := NewRetriever(&failingEmbedder{}, 5, 0.15)

	hs := highlights(6)
	result, err := r.Retrieve(context.Background(), hs, model.ModeOneMinute)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	if result.RetrievedCount != 6 || len(result.EvidenceSet) != 6 {
		t.Errorf("expected all 6 kept, got %d", result.RetrievedCount)
	}
	for i, s := range result.Scores {
		if s.MaxScore != 1 {
			t.Errorf("score %d = %v, want 1", i, s.MaxScore)
		}
	}
	if len(result.Queries) == 0 {
		t.Error("queries should still be reported")
	}
}

func TestRetrieve_UnknownMode(t *testing.T) {
	r := NewRetriever(&failingEmbedder{}, 5, 0.15)
	if _, err := r.Retrieve(context.Background(), highlights(3), "sonnet"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRetrieve_EmbedderErrorPropagates(t *testing.T) {
	r := NewRetriever(&failingEmbedder{}, 5, 0.15)
	if _, err := r.Retrieve(context.Background(), highlights(7), model.ModeOneMinute); err == nil {
		t.Error("expected error from failing embedder above the short-circuit size")
	}
}

func TestRetrieve_ThresholdAndTopK(t *testing.T) {
	hs := highlights(8)
	vectors := map[string][]float64{}
	// Highlights 1-3 align with the query axis with decreasing strength,
	// the rest sit orthogonal (score 0, under the threshold).
	vectors[hs[0].Text] = []float64{1, 0, 0}
	vectors[hs[1].Text] = []float64{0.9, 0.1, 0}
	vectors[hs[2].Text] = []float64{0.5, 0.5, 0}
	for i := 3; i < len(hs); i++ {
		vectors[hs[i].Text] = []float64{0, 1, 0}
	}
	for _, q := range QueryPlans[model.ModeOneMinute] {
		vectors[q] = []float64{1, 0, 0}
	}

	r := NewRetriever(&vectorEmbedder{vectors: vectors}, 2, 0.15)
	result, err := r.Retrieve(context.Background(), hs, model.ModeOneMinute)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	// topK=2 keeps only the two best per query; all queries rank the same
	if result.RetrievedCount != 2 {
		t.Fatalf("expected 2 retained, got %d", result.RetrievedCount)
	}
	if result.EvidenceSet[0].ID != "H1" || result.EvidenceSet[1].ID != "H2" {
		t.Errorf("unexpected evidence: %v", result.EvidenceSet)
	}
}

func TestRetrieve_EvidenceKeepsDocumentOrder(t *testing.T) {
	hs := highlights(8)
	vectors := map[string][]float64{}
	for i := range hs {
		vectors[hs[i].Text] = []float64{0, 1, 0}
	}
	// Make a later highlight score higher than an earlier one
	vectors[hs[1].Text] = []float64{0.6, 0.4, 0}
	vectors[hs[6].Text] = []float64{1, 0, 0}
	for _, q := range QueryPlans[model.ModeTechnical] {
		vectors[q] = []float64{1, 0, 0}
	}

	r := NewRetriever(&vectorEmbedder{vectors: vectors}, 2, 0.15)
	result, err := r.Retrieve(context.Background(), hs, model.ModeTechnical)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	// Evidence in document order, scores ranked by score
	if result.EvidenceSet[0].ID != "H2" || result.EvidenceSet[1].ID != "H7" {
		t.Errorf("evidence order = %v, want [H2 H7]", result.EvidenceSet)
	}
	if result.Scores[0].HighlightID != "H7" {
		t.Errorf("top score should be H7, got %s", result.Scores[0].HighlightID)
	}
}

func TestRetrieve_EqualScoresDeterministicOrder(t *testing.T) {
	hs := highlights(8)
	vectors := map[string][]float64{}
	for i := range hs {
		vectors[hs[i].Text] = []float64{0, 1, 0}
	}
	// Three highlights tie at the same score
	for _, i := range []int{1, 3, 6} {
		vectors[hs[i].Text] = []float64{1, 0, 0}
	}
	for _, q := range QueryPlans[model.ModeOneMinute] {
		vectors[q] = []float64{1, 0, 0}
	}

	r := NewRetriever(&vectorEmbedder{vectors: vectors}, 3, 0.15)
	want := []string{"H2", "H4", "H7"}
	for run := 0; run < 5; run++ {
		result, err := r.Retrieve(context.Background(), hs, model.ModeOneMinute)
		if err != nil {
			t.Fatalf("retrieve failed: %v", err)
		}
		if len(result.Scores) != len(want) {
			t.Fatalf("run %d: expected %d scores, got %d", run, len(want), len(result.Scores))
		}
		// Ties keep document order on every run
		for i, s := range result.Scores {
			if s.HighlightID != want[i] {
				t.Fatalf("run %d: scores[%d] = %s, want %s", run, i, s.HighlightID, want[i])
			}
		}
	}
}

func TestRetrieve_MaxScoreAcrossQueries(t *testing.T) {
	hs := highlights(7)
	vectors := map[string][]float64{}
	for i := range hs {
		vectors[hs[i].Text] = []float64{0, 0, 1}
	}
	// H1 matches query axis A perfectly, weakly matches axis B
	vectors[hs[0].Text] = []float64{1, 0.2, 0}

	queries := QueryPlans[model.ModeOneMinute]
	vectors[queries[0]] = []float64{1, 0, 0} // axis A
	vectors[queries[1]] = []float64{0, 1, 0} // axis B
	vectors[queries[2]] = []float64{0, 1, 0}

	r := NewRetriever(&vectorEmbedder{vectors: vectors}, 5, 0.15)
	result, err := r.Retrieve(context.Background(), hs, model.ModeOneMinute)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	var h1 *model.HighlightScore
	for i := range result.Scores {
		if result.Scores[i].HighlightID == "H1" {
			h1 = &result.Scores[i]
		}
	}
	if h1 == nil {
		t.Fatal("H1 missing from scores")
	}
	if h1.MaxScore < 0.97 {
		t.Errorf("H1 should record its best score across queries, got %v", h1.MaxScore)
	}
}

func TestQueryPlans_CoverAllModes(t *testing.T) {
	for _, mode := range model.Modes {
		queries, ok := QueryPlans[mode]
		if !ok || len(queries) == 0 {
			t.Errorf("mode %s has no query plan", mode)
		}
	}
}
