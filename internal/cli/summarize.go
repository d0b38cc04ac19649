package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/llm"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/pipeline"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/segment"
)

var (
	sumMode       string
	sumStrictness string
	sumNoRetrieve bool
	sumHTML       bool
	sumJSONOut    string
	sumProvider   string
	sumModel      string
	sumBaseURL    string
	sumTimeout    time.Duration
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <notes-file>",
	Short: "Summarize a notes file in a given mode",
	Long: `Summarize segments the notes into numbered highlights, retrieves the
most relevant ones for the chosen mode, and generates a citation-grounded
summary validated against the mode's structural rules.

Modes:
  oneMinute    Thesis + key points + conclusion in ≤120 words
  technical    Frameworks, mechanisms, tradeoffs in ≤250 words
  kidFriendly  Simple language + analogies in ≤120 words
  interview    Exactly 5 bullets, each ≤18 words

Example:
  booksum summarize notes.txt --mode oneMinute
  booksum summarize notes.txt --mode interview --strictness strict --json run.json
  booksum summarize export.html --html --mode technical --provider ollama --model llama3.1:8b
  cat notes.txt | booksum summarize - --mode kidFriendly`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&sumMode, "mode", "oneMinute", "summary mode (oneMinute, technical, kidFriendly, interview)")
	summarizeCmd.Flags().StringVar(&sumStrictness, "strictness", "", "claim support: strict (no inference) or balanced (labeled inference)")
	summarizeCmd.Flags().BoolVar(&sumNoRetrieve, "no-retrieval", false, "skip evidence retrieval, use all highlights")
	summarizeCmd.Flags().BoolVar(&sumHTML, "html", false, "treat the input as an HTML export")
	summarizeCmd.Flags().StringVar(&sumJSONOut, "json", "", "write the full run result to this JSON file")
	summarizeCmd.Flags().DurationVar(&sumTimeout, "timeout", 2*time.Minute, "overall run timeout")

	summarizeCmd.Flags().StringVar(&sumProvider, "provider", "", "generation provider (openai, groq, ollama)")
	summarizeCmd.Flags().StringVar(&sumModel, "model", "", "generation model name")
	summarizeCmd.Flags().StringVar(&sumBaseURL, "base-url", "", "generation endpoint base URL")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(sumMode)
	if err != nil {
		return err
	}

	notes, err := readInput(args[0])
	if err != nil {
		return err
	}
	if sumHTML {
		highlights, err := segment.SegmentHTML(notes)
		if err != nil {
			return fmt.Errorf("parse HTML input: %w", err)
		}
		// Re-render as plain blocks so the pipeline segments identically.
		texts := make([]string, len(highlights))
		for i, h := range highlights {
			texts[i] = h.Text
		}
		notes = strings.Join(texts, "\n\n")
	}

	cfg := loadConfig()
	applyFlags(cfg)

	p, runStore, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	if runStore != nil {
		defer func() { _ = runStore.Close() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), sumTimeout)
	defer cancel()

	result, err := p.Run(ctx, pipeline.Request{
		Mode:       mode,
		NotesText:  notes,
		Strictness: sumStrictness,
		NoRetrieve: sumNoRetrieve,
	})
	if err != nil {
		return reportRunError(err)
	}

	printResult(result)

	if sumJSONOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(sumJSONOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", sumJSONOut, err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote run result: %s\n", sumJSONOut)
	}

	return nil
}

// applyFlags layers CLI flags over the loaded config.
func applyFlags(cfg *model.Config) {
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	if sumProvider != "" {
		cfg.LLM.Provider = sumProvider
	}
	if sumModel != "" {
		cfg.LLM.Model = sumModel
	}
	if sumBaseURL != "" {
		cfg.LLM.BaseURL = sumBaseURL
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read notes: %w", err)
	}
	return string(data), nil
}

// reportRunError renders the failure taxonomy for operators.
func reportRunError(err error) error {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return fmt.Errorf("%w\nThe provider is rate limiting requests. Wait a moment and retry", err)
	case errors.Is(err, llm.ErrAuth):
		return fmt.Errorf("%w\nSet GROQ_API_KEY (free keys: https://console.groq.com/keys) or OPENAI_API_KEY", err)
	}

	var runErr *pipeline.RunError
	if errors.As(err, &runErr) && len(runErr.Diagnostics) > 0 {
		fmt.Fprintf(os.Stderr, "Generation failed validation even after the repair attempt.\n\nDiagnostics:\n")
		for _, d := range runErr.Diagnostics {
			fmt.Fprintf(os.Stderr, "  - %s\n", d)
		}
		if runErr.RawOutput != "" {
			fmt.Fprintf(os.Stderr, "\nLast raw output:\n%s\n", runErr.RawOutput)
		}
	}
	return err
}

func printResult(r *pipeline.Result) {
	policy := r.Output.Mode.Policy()

	fmt.Printf("\n%s Summary (%s)\n", policy.Label, r.Output.Mode)
	fmt.Println(strings.Repeat("─", 59))

	for i, item := range r.Output.Items {
		support := ""
		if item.Support != "" {
			support = fmt.Sprintf(" (%s)", item.Support)
		}
		fmt.Printf("%d. %s\n   ↳ cites %s%s\n", i+1, item.Text, strings.Join(item.Citations, ", "), support)
	}

	if len(r.Output.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range r.Output.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}

	m := r.Metrics
	fmt.Println(strings.Repeat("─", 59))
	fmt.Printf("Words: %d", m.WordCount)
	if policy.WordLimit > 0 {
		fmt.Printf("/%d", policy.WordLimit)
	}
	fmt.Printf("  Items: %d  Coverage: %d%%  Valid citations: %v\n", m.ItemCount, m.CitationCoverage, m.ValidCitations)

	if r.Retrieval != nil {
		fmt.Printf("Evidence: %d of %d highlights retrieved\n", r.Retrieval.RetrievedCount, r.Retrieval.TotalHighlights)
	}
	if r.Repaired {
		fmt.Println("Note: output required one repair pass")
	}
}
