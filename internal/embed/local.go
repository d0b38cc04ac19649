package embed

import (
	"context"
	"math"
	"strings"
)

// LocalDim is the dimensionality of the deterministic fallback vectors.
const LocalDim = 128

// LocalEmbedder produces deterministic hash-based bag-of-words vectors.
// Same text always yields the same vector, so offline runs are reproducible.
// It never errors.
type LocalEmbedder struct{}

// NewLocalEmbedder creates the deterministic local embedder.
func NewLocalEmbedder() *LocalEmbedder {
	return &LocalEmbedder{}
}

// Name returns the provider name
func (e *LocalEmbedder) Name() string {
	return "local"
}

// Embed hashes each text into a LocalDim bag-of-words vector.
func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, t := range texts {
		vecs[i] = hashVector(t)
	}
	return vecs, nil
}

// hashVector lowercases, strips non-alphanumerics, hashes each token into a
// bucket, accumulates counts, and L2-normalizes. A zero vector (no tokens)
// stays zero.
func hashVector(text string) []float64 {
	vec := make([]float64, LocalDim)

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, text)

	for _, w := range strings.Fields(cleaned) {
		var h uint32
		for i := 0; i < len(w); i++ {
			h = (h*31 + uint32(w[i])) & 0x7fffffff
		}
		vec[h%LocalDim]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
