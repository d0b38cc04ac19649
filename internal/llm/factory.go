package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a generation provider from configuration.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai", "groq":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown generation provider: %s (supported: openai, groq, ollama)", config.Provider)
	}
}
