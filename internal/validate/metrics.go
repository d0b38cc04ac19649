package validate

import (
	"math"
	"time"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// Metrics computes the derived run snapshot for a validated output against
// its evidence set. It is pure: the same inputs always yield the same
// metrics (modulo the timestamp), independent of how the output was
// produced.
func Metrics(out *model.Output, evidence []model.Highlight) model.RunMetrics {
	wc := TotalWords(out.Items)
	policy := out.Mode.Policy()
	citCheck := Citations(out, evidence)

	ids := make(map[string]bool, len(evidence))
	for _, h := range evidence {
		ids[h.ID] = true
	}

	// Coverage counts evidence units actually referenced; citations of
	// nonexistent IDs surface in MissingCitations, not here.
	used := make(map[string]bool)
	for _, item := range out.Items {
		for _, c := range item.Citations {
			if ids[c] {
				used[c] = true
			}
		}
	}

	coverage := 0
	if len(evidence) > 0 {
		coverage = int(math.Round(float64(len(used)) / float64(len(evidence)) * 100))
	}

	avg := 0
	if len(out.Items) > 0 {
		avg = int(math.Round(float64(wc) / float64(len(out.Items))))
	}

	return model.RunMetrics{
		SchemaPass:       Output(out).OK,
		WordCount:        wc,
		WordLimitPass:    policy.WordLimit == 0 || wc <= policy.WordLimit,
		CitationCoverage: coverage,
		ItemCount:        len(out.Items),
		AvgWordsPerItem:  avg,
		ValidCitations:   citCheck.Valid,
		MissingCitations: citCheck.Missing,
		Timestamp:        time.Now().UTC(),
	}
}
