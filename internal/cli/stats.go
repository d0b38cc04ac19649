package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/store"
)

var statsLimit int

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate stats over recorded runs",
	Long: `Stats reads the local run history and prints aggregate quality
numbers plus the most recent runs.

Example:
  booksum stats
  booksum stats --limit 20`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVar(&statsLimit, "limit", 10, "number of recent runs to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if !cfg.Store.Enabled {
		return fmt.Errorf("run history is disabled in configuration (store.enabled: false)")
	}

	runStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer func() { _ = runStore.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := runStore.ReadStats(ctx)
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	if stats.TotalRuns == 0 {
		fmt.Fprintln(os.Stderr, "No runs recorded yet. Run 'booksum summarize' first.")
		return nil
	}

	fmt.Println("\nRun History")
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("Total runs:     %d\n", stats.TotalRuns)
	fmt.Printf("Pass rate:      %d%%\n", stats.PassRate)
	fmt.Printf("Repair rate:    %d%%\n", stats.RepairRate)
	fmt.Printf("Avg words:      %d\n", stats.AvgWords)
	fmt.Printf("Avg coverage:   %d%%\n", stats.AvgCoverage)

	if len(stats.ByMode) > 0 {
		modes := make([]string, 0, len(stats.ByMode))
		for m := range stats.ByMode {
			modes = append(modes, m)
		}
		sort.Strings(modes)

		fmt.Println("\nRuns by mode:")
		for _, m := range modes {
			fmt.Printf("  %-12s %d\n", m, stats.ByMode[m])
		}
	}

	runs, err := runStore.ListRuns(ctx, statsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) > 0 {
		fmt.Printf("\nLast %d runs:\n", len(runs))
		for _, r := range runs {
			pass := "pass"
			if !r.SchemaPass {
				pass = "FAIL"
			}
			repaired := ""
			if r.Repaired {
				repaired = " repaired"
			}
			fmt.Printf("  %s  %-12s %-10s %3dw %2d items  %s%s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Mode, r.Provider, r.WordCount, r.ItemCount, pass, repaired)
		}
	}
	fmt.Println()

	return nil
}
