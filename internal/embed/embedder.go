// Package embed converts text to fixed-dimension vectors and computes
// vector similarity. Remote providers are wrapped so that embedding can
// never fail the caller: any remote error degrades to a deterministic
// local bag-of-words vector, keeping retrieval and faithfulness scoring
// reproducible offline.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/cache"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// Embedder converts a batch of texts into one vector per text, in input
// order. Implementations must return exactly len(texts) vectors on success.
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed returns one vector per input text, same order
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// NewFromConfig builds the configured embedder stack: remote provider (if
// any) wrapped with a cache, then with batching+fallback. The cache sits
// inside the fallback so only vectors the remote actually produced are
// stored; locally degraded batches are recomputed, never cached under the
// remote's key. Unknown or unconfigured providers fall back to the local
// embedder rather than erroring, mirroring the availability-based
// selection of the remote service.
func NewFromConfig(cfg *model.Config, store cache.Cache) Embedder {
	var inner Embedder

	switch strings.ToLower(cfg.Embedding.Provider) {
	case "openai":
		if cfg.Embedding.APIKey != "" {
			inner = NewOpenAIEmbedder(cfg.Embedding)
		}
	case "ollama":
		if e, err := NewOllamaEmbedder(cfg.Embedding); err == nil {
			inner = e
		}
	case "huggingface", "hf":
		if cfg.Embedding.APIKey != "" {
			inner = NewHuggingFaceEmbedder(cfg.Embedding)
		}
	}

	if inner == nil {
		return NewLocalEmbedder()
	}
	if store != nil {
		inner = NewCached(inner, cfg.Embedding.Model, store)
	}
	return NewFallback(inner, cfg.Embedding.BatchSize, cfg.Embedding.Workers)
}

// checkCount guards the same-length, same-order contract of remote APIs.
func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("embedding count mismatch: got %d vectors for %d texts", got, want)
	}
	return nil
}
