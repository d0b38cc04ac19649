package embed

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Fallback wraps a remote embedder with batching, bounded concurrency, and
// the never-fail contract: any batch the remote provider cannot serve is
// embedded with the deterministic local vectors instead. Batches may finish
// in any order but results are reassembled in input order before return.
type Fallback struct {
	remote    Embedder
	local     *LocalEmbedder
	batchSize int
	workers   int
}

// NewFallback wraps remote with batching and local degradation.
func NewFallback(remote Embedder, batchSize, workers int) *Fallback {
	if batchSize <= 0 {
		batchSize = 16
	}
	if workers <= 0 {
		workers = 3
	}
	return &Fallback{
		remote:    remote,
		local:     NewLocalEmbedder(),
		batchSize: batchSize,
		workers:   workers,
	}
}

// Name returns the provider name
func (f *Fallback) Name() string {
	return f.remote.Name()
}

// Embed never returns an error: remote failures degrade per batch.
func (f *Fallback) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vecs := make([][]float64, len(texts))
	semaphore := make(chan struct{}, f.workers)
	var wg sync.WaitGroup

	for start := 0; start < len(texts); start += f.batchSize {
		end := start + f.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			batch := texts[start:end]
			out, err := f.remote.Embed(ctx, batch)
			if err != nil || len(out) != len(batch) {
				if err == nil {
					err = fmt.Errorf("got %d vectors for %d texts", len(out), len(batch))
				}
				fmt.Fprintf(os.Stderr, "Warning: %s embeddings unavailable, using local fallback: %v\n", f.remote.Name(), err)
				out, _ = f.local.Embed(ctx, batch)
			}
			copy(vecs[start:end], out)
		}(start, end)
	}

	wg.Wait()
	return vecs, nil
}
