package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/retrieve"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/segment"
)

var (
	hlHTML    bool
	hlJSONOut string
	hlScores  string
)

// highlightsCmd represents the highlights command
var highlightsCmd = &cobra.Command{
	Use:   "highlights <notes-file>",
	Short: "Preview how notes segment into highlights",
	Long: `Highlights splits the notes into the numbered units the summarizer
cites, without calling any generation provider. Useful for checking how
chapter notes will be cited before running a summary.

With --scores, it also runs evidence retrieval for a mode and shows each
highlight's best relevance score.

Example:
  booksum highlights notes.txt
  booksum highlights export.html --html
  booksum highlights notes.txt --scores technical`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlights,
}

func init() {
	rootCmd.AddCommand(highlightsCmd)

	highlightsCmd.Flags().BoolVar(&hlHTML, "html", false, "treat the input as an HTML export")
	highlightsCmd.Flags().StringVar(&hlJSONOut, "json", "", "write highlights to this JSON file")
	highlightsCmd.Flags().StringVar(&hlScores, "scores", "", "score highlights against this mode's retrieval queries")
}

func runHighlights(cmd *cobra.Command, args []string) error {
	notes, err := readInput(args[0])
	if err != nil {
		return err
	}

	var highlights []model.Highlight
	if hlHTML {
		highlights, err = segment.SegmentHTML(notes)
		if err != nil {
			return fmt.Errorf("parse HTML input: %w", err)
		}
	} else {
		highlights = segment.Segment(notes)
	}

	if len(highlights) == 0 {
		return fmt.Errorf("no highlights found in %s", args[0])
	}

	scores, err := scoreHighlights(highlights)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d highlights\n", len(highlights))
	fmt.Println("───────────────────────────────────────────────────────────")
	for _, h := range highlights {
		if score, ok := scores[h.ID]; ok {
			fmt.Printf("[%s] (%.3f) %s\n", h.ID, score, h.Text)
		} else {
			fmt.Printf("[%s] %s\n", h.ID, h.Text)
		}
	}

	if hlJSONOut != "" {
		data, err := json.MarshalIndent(highlights, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal highlights: %w", err)
		}
		if err := os.WriteFile(hlJSONOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", hlJSONOut, err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote highlights: %s\n", hlJSONOut)
	}

	return nil
}

// scoreHighlights runs retrieval for the --scores mode and maps each
// highlight ID to its best score. Returns nil when scoring is off.
func scoreHighlights(highlights []model.Highlight) (map[string]float64, error) {
	if hlScores == "" {
		return nil, nil
	}

	mode, err := model.ParseMode(hlScores)
	if err != nil {
		return nil, err
	}

	cfg := loadConfig()
	retriever := retrieve.NewRetriever(buildEmbedder(cfg), cfg.Retrieval.TopK, cfg.Retrieval.Threshold)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := retriever.Retrieve(ctx, highlights, mode)
	if err != nil {
		return nil, fmt.Errorf("score highlights: %w", err)
	}

	scores := make(map[string]float64, len(result.Scores))
	for _, s := range result.Scores {
		scores[s.HighlightID] = s.MaxScore
	}
	return scores, nil
}
