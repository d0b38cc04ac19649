package model

import (
	"os"
	"path/filepath"
)

// Config is the complete application configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the text-generation collaborator.
type LLMConfig struct {
	Provider   string  `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model      string  `yaml:"model" mapstructure:"model"`
	APIKey     string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string  `yaml:"base_url,omitempty" mapstructure:"base_url"` // e.g. Groq's OpenAI-compatible endpoint
	Timeout    int     `yaml:"timeout" mapstructure:"timeout"`             // seconds
	MaxTokens  int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Strictness string  `yaml:"strictness" mapstructure:"strictness"` // strict | balanced
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	RateBurst  int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// EmbeddingConfig configures the embedding collaborator. The local provider
// is always available and needs no credentials.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, huggingface, local
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
	Workers   int    `yaml:"workers" mapstructure:"workers"` // concurrent batches
}

// RetrievalConfig tunes the evidence retriever.
type RetrievalConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	TopK      int     `yaml:"top_k" mapstructure:"top_k"`
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// CacheConfig configures the embedding cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir,omitempty" mapstructure:"dir"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// StoreConfig configures the run-history store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path,omitempty" mapstructure:"path"`
}

// OutputConfig controls operator-facing output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults. The embedding provider defaults
// to the deterministic local fallback so everything works offline.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:   "openai",
			Timeout:    30,
			MaxTokens:  2048,
			Strictness: "balanced",
			RateLimit:  0.5,
			RateBurst:  2,
		},
		Embedding: EmbeddingConfig{
			Provider:  "local",
			Timeout:   30,
			BatchSize: 16,
			Workers:   3,
		},
		Retrieval: RetrievalConfig{
			Enabled:   true,
			TopK:      5,
			Threshold: 0.15,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultDir("cache"),
			TTLDays: 7,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    defaultDir("runs.db"),
		},
		Output: OutputConfig{},
	}
}

func defaultDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".booksum", name)
	}
	return filepath.Join(home, ".booksum", name)
}
