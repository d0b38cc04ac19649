package worker

import (
	"context"
	"os"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/pipeline"
)

// Runner runs a single summarization request.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// SummarizeJob summarizes one notes file.
type SummarizeJob struct {
	Path   string
	Mode   model.Mode
	Runner Runner
}

// SummarizeResult is the outcome of one file.
type SummarizeResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the job error, if any.
func (r *SummarizeResult) GetError() error {
	return r.Error
}

// Execute reads the file and runs it through the pipeline.
func (j *SummarizeJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &SummarizeResult{Path: j.Path, Error: err}
	}

	result, err := j.Runner.Run(ctx, pipeline.Request{
		Mode:      j.Mode,
		NotesText: string(data),
	})
	return &SummarizeResult{Path: j.Path, Result: result, Error: err}
}

// BatchProcessor summarizes many note files concurrently. Provider pacing
// lives in the pipeline, so concurrency here only bounds in-flight files.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessFiles summarizes every file in the given mode and returns one
// result per file, in completion order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, mode model.Mode) []*SummarizeResult {
	if len(paths) == 0 {
		return []*SummarizeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&SummarizeJob{Path: path, Mode: mode, Runner: b.runner})
	}

	raw := pool.Wait()
	results := make([]*SummarizeResult, 0, len(raw))
	for _, r := range raw {
		if sr, ok := r.(*SummarizeResult); ok {
			results = append(results, sr)
		}
	}
	return results
}
