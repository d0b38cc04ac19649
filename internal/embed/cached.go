package embed

import (
	"context"
	"encoding/json"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/cache"
)

// Cached wraps an embedder with a vector cache keyed by provider, model,
// and text. Cache errors are ignored: a broken cache degrades to
// recomputation, never to a failed embedding call.
type Cached struct {
	inner Embedder
	model string
	store cache.Cache
}

// NewCached wraps inner with the given cache. The model name is part of the
// cache key so that switching models never serves vectors from the old one.
func NewCached(inner Embedder, model string, store cache.Cache) *Cached {
	return &Cached{inner: inner, model: model, store: store}
}

// Name returns the provider name
func (c *Cached) Name() string {
	return c.inner.Name()
}

// Embed serves cache hits and delegates only the misses to the inner
// embedder, merging the results back in input order.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))

	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		if data, found := c.store.Get(c.key(t)); found {
			var vec []float64
			if err := json.Unmarshal(data, &vec); err == nil {
				vecs[i] = vec
				continue
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) == 0 {
		return vecs, nil
	}

	fresh, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, i := range missIdx {
		vecs[i] = fresh[j]
		if data, err := json.Marshal(fresh[j]); err == nil {
			_ = c.store.Set(c.key(texts[i]), data, 0)
		}
	}
	return vecs, nil
}

func (c *Cached) key(text string) string {
	return cache.Key(c.inner.Name() + ":" + c.model + ":" + text)
}
