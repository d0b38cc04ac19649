package embed

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

// flakyEmbedder fails every call (or every other call when alternate is set)
type flakyEmbedder struct {
	calls     int32
	alternate bool
}

func (f *flakyEmbedder) Name() string { return "flaky" }

func (f *flakyEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if f.alternate && n%2 == 0 {
		vecs := make([][]float64, len(texts))
		for i := range vecs {
			vecs[i] = []float64{float64(n), 1}
		}
		return vecs, nil
	}
	return nil, errors.New("remote unavailable")
}

func TestFallback_DegradesToLocal(t *testing.T) {
	f := NewFallback(&flakyEmbedder{}, 2, 2)

	texts := []string{"alpha beta", "gamma delta", "epsilon zeta"}
	vecs, err := f.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vecs))
	}

	// Degraded vectors come from the local embedder
	local, _ := NewLocalEmbedder().Embed(context.Background(), texts)
	for i := range texts {
		if Cosine(vecs[i], local[i]) < 0.999 {
			t.Errorf("vector %d is not the local fallback", i)
		}
	}
}

func TestFallback_PreservesOrder(t *testing.T) {
	// An embedder that encodes the text's index so order mixups surface.
	e := &indexEmbedder{}
	f := NewFallback(e, 1, 4)

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}

	vecs, err := f.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	for i, v := range vecs {
		if int(v[0]) != i {
			t.Errorf("position %d holds vector for text %d", i, int(v[0]))
		}
	}
}

type indexEmbedder struct{}

func (e *indexEmbedder) Name() string { return "index" }

func (e *indexEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, t := range texts {
		var idx int
		if _, err := fmt.Sscanf(t, "text-%d", &idx); err != nil {
			return nil, err
		}
		vecs[i] = []float64{float64(idx)}
	}
	return vecs, nil
}

func TestFallback_CountMismatchDegrades(t *testing.T) {
	f := NewFallback(&shortEmbedder{}, 4, 1)

	vecs, err := f.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != LocalDim {
			t.Errorf("vector %d should be a local vector, got dimension %d", i, len(v))
		}
	}
}

// shortEmbedder returns fewer vectors than texts
type shortEmbedder struct{}

func (e *shortEmbedder) Name() string { return "short" }

func (e *shortEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	return [][]float64{{1}}, nil
}

func TestFallback_EmptyInput(t *testing.T) {
	f := NewFallback(&flakyEmbedder{}, 16, 3)

	vecs, err := f.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != 0 {
		t.Errorf("expected no vectors, got %d", len(vecs))
	}
}
