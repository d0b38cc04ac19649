package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/worker"
)

var (
	batchMode    string
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Summarize multiple note files in parallel",
	Long: `Batch summarizes several note files concurrently:
- Each file runs through the full segment → retrieve → generate pipeline
- Worker count bounds in-flight files; provider pacing stays global
- One JSON result per input file is written to the output directory

Example:
  booksum batch notes/*.txt --mode oneMinute
  booksum batch ch1.txt ch2.txt --mode technical --concurrency 2 --output-dir ./summaries`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchMode, "mode", "oneMinute", "summary mode for every file")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./booksum-out", "output directory for result JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(batchMode)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	p, runStore, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	if runStore != nil {
		defer func() { _ = runStore.Close() }()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Summarizing %d files (%s) with %d workers...\n\n", len(args), mode, concurrency)

	processor := worker.NewBatchProcessor(p, concurrency)
	results := processor.ProcessFiles(ctx, args, mode)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}
		successCount++

		outPath := filepath.Join(outputDir, resultFilename(result.Path, mode))
		data, err := json.MarshalIndent(result.Result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: marshal result: %v\n", result.Path, err)
			continue
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write result: %v\n", result.Path, err)
			continue
		}

		m := result.Result.Metrics
		fmt.Fprintf(os.Stderr, "✓ %s (%d words, %d items, coverage %d%%)\n",
			result.Path, m.WordCount, m.ItemCount, m.CitationCoverage)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d succeeded, %d failed, output in %s\n",
		successCount, failureCount, outputDir)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d files failed", failureCount, len(results))
	}
	return nil
}

// resultFilename derives a stable output name from the input path and mode.
func resultFilename(path string, mode model.Mode) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return fmt.Sprintf("%s.%s.json", base, mode)
}
