// Package llm adapts text-generation providers behind a single interface:
// given a system and a user instruction, return raw text expected to
// contain one JSON object.
package llm

import (
	"context"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// Provider defines the interface for generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate returns the raw model response for the given instructions.
	// The response is expected, not guaranteed, to contain a JSON object;
	// parsing is the caller's concern.
	Generate(ctx context.Context, system, user string, temperature float64) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Strictness levels for the system instruction.
const (
	StrictnessStrict   = "strict"   // No inference allowed, all items "direct"
	StrictnessBalanced = "balanced" // Labeled inference allowed
)

// Config holds generation provider configuration.
type Config struct {
	// Provider name: "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (Groq, Ollama, self-hosted)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts the app-level LLM section to a provider config.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}
