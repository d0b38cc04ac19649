package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// OllamaEmbedder generates embeddings with a local Ollama instance.
type OllamaEmbedder struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// NewOllamaEmbedder creates an Ollama embedder from config.
func NewOllamaEmbedder(cfg model.EmbeddingConfig) (*OllamaEmbedder, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = "nomic-embed-text"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OllamaEmbedder{
		client:  api.NewClient(parsed, http.DefaultClient),
		model:   embModel,
		timeout: timeout,
	}, nil
}

// Name returns the provider name
func (e *OllamaEmbedder) Name() string {
	return "ollama"
}

// Embed requests one embedding per text. The Ollama embeddings endpoint
// takes a single prompt, so texts within a batch are embedded sequentially;
// batch-level concurrency lives in the Fallback wrapper.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i, text := range texts {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, e.timeout)
		resp, err := e.client.Embeddings(ctxWithTimeout, &api.EmbeddingRequest{
			Model:  e.model,
			Prompt: text,
		})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("ollama embeddings: %w", err)
		}
		vecs[i] = resp.Embedding
	}
	return vecs, nil
}
