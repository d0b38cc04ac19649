package embed

import "math"

// Cosine computes cosine similarity in [-1, 1]. Length-mismatched pairs and
// zero-magnitude vectors score 0 rather than erroring, so degenerate inputs
// flow through retrieval as "not relevant" instead of aborting a run.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	d := math.Sqrt(na) * math.Sqrt(nb)
	if d == 0 {
		return 0
	}
	return dot / d
}

// MeanPool averages per-token embeddings into a single pooled vector.
// Some feature-extraction endpoints return one vector per token; pooling
// happens before any similarity computation.
func MeanPool(tokens [][]float64) []float64 {
	if len(tokens) == 0 {
		return nil
	}

	pooled := make([]float64, len(tokens[0]))
	for _, t := range tokens {
		for i := range pooled {
			pooled[i] += t[i]
		}
	}
	for i := range pooled {
		pooled[i] /= float64(len(tokens))
	}
	return pooled
}
