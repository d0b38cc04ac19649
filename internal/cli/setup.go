package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/cache"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/embed"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/llm"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/pipeline"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/retrieve"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/store"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/worker"
)

// loadConfig merges defaults, the config file, and environment variables.
// CLI flags override on top in each command.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}

	// API keys come from well-known env vars when the config leaves them
	// blank; keys in config files are supported but discouraged.
	if cfg.LLM.APIKey == "" {
		if strings.Contains(cfg.LLM.BaseURL, "groq") {
			cfg.LLM.APIKey = os.Getenv("GROQ_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.Embedding.APIKey == "" {
		switch strings.ToLower(cfg.Embedding.Provider) {
		case "openai":
			cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		case "huggingface", "hf":
			cfg.Embedding.APIKey = os.Getenv("HF_API_TOKEN")
		}
	}

	return cfg
}

// buildEmbedder assembles the configured embedder stack.
func buildEmbedder(cfg *model.Config) embed.Embedder {
	var vectorCache cache.Cache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour
		vectorCache = cache.NewLayeredCache(30*time.Minute, cfg.Cache.Dir, ttl)
	}
	return embed.NewFromConfig(cfg, vectorCache)
}

// buildPipeline wires provider, retriever, pacer, and run store. The
// returned store may be nil; callers own closing it.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, *store.Store, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, nil, err
	}

	var retriever *retrieve.Retriever
	if cfg.Retrieval.Enabled {
		retriever = retrieve.NewRetriever(buildEmbedder(cfg), cfg.Retrieval.TopK, cfg.Retrieval.Threshold)
	}

	limiter := worker.NewLimiter(cfg.LLM.RateLimit, cfg.LLM.RateBurst)

	var runStore *store.Store
	if cfg.Store.Enabled {
		runStore, err = store.Open(cfg.Store.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run history disabled: %v\n", err)
			runStore = nil
		}
	}

	var recorder pipeline.Recorder
	if runStore != nil {
		recorder = runStore
	}

	return pipeline.New(cfg, provider, retriever, limiter, recorder), runStore, nil
}
