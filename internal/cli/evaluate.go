package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/eval"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/pipeline"
)

var (
	evalJSONOut string
	evalTimeout time.Duration
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <run.json>",
	Short: "Score a saved run for faithfulness",
	Long: `Evaluate compares each summary item against the text of the highlights
it cites, using embedding similarity. Items below the similarity threshold
are flagged as possible unsupported claims.

The input is a run result written by 'booksum summarize --json'.

Example:
  booksum summarize notes.txt --mode technical --json run.json
  booksum evaluate run.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalJSONOut, "json", "", "write the faithfulness report to this JSON file")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", time.Minute, "evaluation timeout")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read run: %w", err)
	}

	var run pipeline.Result
	if err := json.Unmarshal(data, &run); err != nil {
		return fmt.Errorf("parse run: %w", err)
	}
	if run.Output == nil || len(run.Output.Items) == 0 {
		return fmt.Errorf("%s contains no summary items to evaluate", args[0])
	}
	if len(run.Highlights) == 0 {
		return fmt.Errorf("%s contains no highlights to evaluate against", args[0])
	}

	cfg := loadConfig()
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	evaluator := eval.NewEvaluator(buildEmbedder(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	report, err := evaluator.Evaluate(ctx, run.Output.Items, run.Highlights)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	fmt.Printf("\nFaithfulness Report (%s)\n", run.Output.Mode)
	fmt.Println("───────────────────────────────────────────────────────────")
	for _, item := range report.Results {
		marker := "✓"
		if item.Flagged {
			marker = "⚠"
		}
		fmt.Printf("%s item %d  similarity %.3f\n", marker, item.ItemIndex+1, item.Similarity)
		fmt.Printf("  %s\n", item.ItemText)
		if item.Reason != "" {
			fmt.Printf("  %s\n", item.Reason)
		}
	}

	s := report.Summary
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("Items: %d  Flagged: %d  Avg similarity: %.3f  Pass rate: %d%%\n",
		s.TotalItems, s.FlaggedItems, s.AvgSimilarity, s.PassRate)

	if evalJSONOut != "" {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(evalJSONOut, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", evalJSONOut, err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", evalJSONOut)
	}

	if s.FlaggedItems > 0 {
		return fmt.Errorf("%d of %d items flagged as possibly unsupported", s.FlaggedItems, s.TotalItems)
	}
	return nil
}
