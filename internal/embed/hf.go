package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

const defaultHFURL = "https://router.huggingface.co/hf-inference/models/sentence-transformers/all-MiniLM-L6-v2/pipeline/feature-extraction"

// HuggingFaceEmbedder calls the HF inference feature-extraction endpoint.
// Depending on the model, the endpoint returns either one pooled vector per
// input or one vector per token; per-token responses are mean-pooled.
type HuggingFaceEmbedder struct {
	url        string
	token      string
	httpClient *http.Client
}

type hfRequest struct {
	Inputs  []string  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHuggingFaceEmbedder creates a HuggingFace embedder from config.
func NewHuggingFaceEmbedder(cfg model.EmbeddingConfig) *HuggingFaceEmbedder {
	url := cfg.BaseURL
	if url == "" {
		url = defaultHFURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HuggingFaceEmbedder{
		url:        url,
		token:      cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name
func (e *HuggingFaceEmbedder) Name() string {
	return "huggingface"
}

// Embed requests embeddings for all texts in one call.
func (e *HuggingFaceEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(hfRequest{
		Inputs:  texts,
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	vecs, err := decodeHFResponse(respBody)
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(vecs), len(texts)); err != nil {
		return nil, err
	}
	return vecs, nil
}

// decodeHFResponse accepts both response shapes: [][]float64 (pooled) and
// [][][]float64 (per-token, mean-pooled here).
func decodeHFResponse(body []byte) ([][]float64, error) {
	var pooled [][]float64
	if err := json.Unmarshal(body, &pooled); err == nil {
		return pooled, nil
	}

	var perToken [][][]float64
	if err := json.Unmarshal(body, &perToken); err == nil {
		vecs := make([][]float64, len(perToken))
		for i, tokens := range perToken {
			vecs[i] = MeanPool(tokens)
		}
		return vecs, nil
	}

	return nil, fmt.Errorf("unexpected embedding response shape: %s", truncate(string(body), 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
