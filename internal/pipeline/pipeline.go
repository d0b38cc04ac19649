// Package pipeline sequences one summarization run: segment → retrieve →
// prompt → generate → validate → bounded repair → metrics.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/llm"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/retrieve"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/segment"
	"github.com/SanjanaSoma11/book-notes-summarizer/internal/validate"
)

// MinNotesLen is the minimum raw notes length accepted before any
// external call is made.
const MinNotesLen = 10

// State names one phase of a run. The repair transition exists once, so the
// single-repair bound is a property of the control flow, not a counter.
type State string

const (
	StateIdle       State = "idle"
	StateRetrieving State = "retrieving"
	StatePrompting  State = "prompting"
	StateGenerating State = "generating"
	StateValidating State = "validating"
	StateRepairing  State = "repairing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Pacer throttles calls to the metered generation provider.
type Pacer interface {
	Wait(ctx context.Context, provider string) error
}

// Recorder appends completed runs to the run-history store.
type Recorder interface {
	AppendRun(ctx context.Context, rec RunRecord) error
}

// RunRecord is the persisted summary of one completed run.
type RunRecord struct {
	Mode          string
	Provider      string
	Model         string
	WordCount     int
	ItemCount     int
	SchemaPass    bool
	WordLimitPass bool
	Coverage      int
	Repaired      bool
}

// Request is one summarization request.
type Request struct {
	Mode       model.Mode
	NotesText  string
	Strictness string // strict | balanced; empty uses the configured default
	NoRetrieve bool   // Skip evidence retrieval, use all highlights
}

// Result is a terminal success: the validated envelope plus everything an
// operator needs to audit it.
type Result struct {
	Output     *model.Output          `json:"output"`
	Metrics    model.RunMetrics       `json:"metrics"`
	Highlights []model.Highlight      `json:"highlights"`
	Evidence   []model.Highlight      `json:"evidence"`
	Retrieval  *model.RetrievalResult `json:"retrieval,omitempty"`
	Repaired   bool                   `json:"repaired"`
	Provider   string                 `json:"provider"`
	Model      string                 `json:"model"`
}

// RunError is a terminal failure after the repair attempt. It carries the
// full diagnostics and the last raw output for operator debugging; callers
// must never discard it silently.
type RunError struct {
	State       State
	Diagnostics []string
	RawOutput   string
	Err         error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("run failed in state %s: %v", e.State, e.Err)
	}
	return fmt.Sprintf("run failed in state %s: %s", e.State, strings.Join(e.Diagnostics, "; "))
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Pipeline orchestrates summarization runs.
type Pipeline struct {
	provider  llm.Provider
	retriever *retrieve.Retriever
	pacer     Pacer
	recorder  Recorder
	cfg       *model.Config
}

// New assembles a pipeline. retriever, pacer, and recorder may each be nil:
// a nil retriever disables retrieval, a nil pacer disables pacing, a nil
// recorder disables run history.
func New(cfg *model.Config, provider llm.Provider, retriever *retrieve.Retriever, pacer Pacer, recorder Recorder) *Pipeline {
	return &Pipeline{
		provider:  provider,
		retriever: retriever,
		pacer:     pacer,
		recorder:  recorder,
		cfg:       cfg,
	}
}

// Run executes one request through the state machine. Input rejection
// happens before any external call. Retrieval failures degrade to the full
// highlight set. Structural and citation failures get exactly one combined
// repair attempt; a response that still fails structurally afterwards is a
// *RunError.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	state := StateIdle

	if !req.Mode.Known() {
		return nil, fmt.Errorf("invalid mode %q", string(req.Mode))
	}
	if len(strings.TrimSpace(req.NotesText)) < MinNotesLen {
		return nil, fmt.Errorf("notes too short: provide at least %d characters", MinNotesLen)
	}

	highlights := segment.Segment(req.NotesText)
	if len(highlights) == 0 {
		return nil, fmt.Errorf("could not extract any highlights from the notes")
	}

	strictness := req.Strictness
	if strictness == "" {
		strictness = p.cfg.LLM.Strictness
	}

	// Retrieving. An optimization, never a correctness requirement: any
	// failure or empty selection falls back to the full highlight set.
	evidence := highlights
	var retrieval *model.RetrievalResult
	if p.retriever != nil && !req.NoRetrieve {
		state = StateRetrieving
		p.trace(state, "%d highlights", len(highlights))

		r, err := p.retriever.Retrieve(ctx, highlights, req.Mode)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Warning: retrieval failed, using all highlights: %v\n", err)
		case len(r.EvidenceSet) == 0:
			fmt.Fprintf(os.Stderr, "Warning: retrieval selected nothing, using all highlights\n")
		default:
			retrieval = r
			evidence = r.EvidenceSet
		}
	}

	// Prompting
	state = StatePrompting
	p.trace(state, "%d evidence highlights", len(evidence))
	block := segment.FormatForPrompt(evidence)
	system := llm.BuildSystemPrompt(strictness)
	user := llm.BuildUserPrompt(req.Mode, block)
	temperature := req.Mode.Policy().Temperature

	// Generating
	state = StateGenerating
	p.trace(state, "provider=%s", p.provider.Name())
	raw, err := p.generate(ctx, system, user, temperature)
	if err != nil {
		return nil, &RunError{State: state, Err: err}
	}

	out, parsed := llm.ParseOutput(raw)
	if !parsed {
		// Malformed JSON gets its own cheap repair, distinct from the
		// content-repair cycle below.
		p.trace(state, "response not parseable, attempting JSON repair")
		repair := llm.BuildRepairPrompt(raw, []string{"Response was not valid JSON. Return ONLY a JSON object."}, block)
		raw, err = p.generate(ctx, system, repair, temperature)
		if err != nil {
			return nil, &RunError{State: state, Err: err}
		}
		out, parsed = llm.ParseOutput(raw)
	}

	// Validating
	state = StateValidating
	vres, cit := p.check(out, parsed, evidence)

	// Repairing: at most one cycle, covering structural and citation
	// failures together so the provider sees every violation at once.
	repaired := false
	if !vres.OK || !cit.Valid {
		state = StateRepairing
		combined := append([]string{}, vres.Errors...)
		for _, id := range cit.SortedMissing() {
			combined = append(combined, fmt.Sprintf("Citation %s does not exist in highlights", id))
		}
		p.trace(state, "%d diagnostics", len(combined))

		repair := llm.BuildRepairPrompt(raw, combined, block)
		raw, err = p.generate(ctx, system, repair, temperature)
		if err != nil {
			return nil, &RunError{State: state, Err: err, Diagnostics: combined}
		}

		out, parsed = llm.ParseOutput(raw)
		state = StateValidating
		vres, cit = p.check(out, parsed, evidence)
		repaired = true
	}

	if !vres.OK {
		state = StateFailed
		return nil, &RunError{State: state, Diagnostics: vres.Errors, RawOutput: raw}
	}
	// Citations still missing after repair are not fatal: they surface in
	// the metrics and the output warnings for the operator to judge.
	if !cit.Valid {
		for _, id := range cit.SortedMissing() {
			out.Warnings = append(out.Warnings, fmt.Sprintf("citation %s does not exist in the evidence set", id))
		}
	}

	state = StateSucceeded
	metrics := validate.Metrics(out, evidence)
	p.trace(state, "words=%d items=%d coverage=%d%%", metrics.WordCount, metrics.ItemCount, metrics.CitationCoverage)

	result := &Result{
		Output:     out,
		Metrics:    metrics,
		Highlights: highlights,
		Evidence:   evidence,
		Retrieval:  retrieval,
		Repaired:   repaired,
		Provider:   p.provider.Name(),
		Model:      p.cfg.LLM.Model,
	}

	if p.recorder != nil {
		rec := RunRecord{
			Mode:          string(out.Mode),
			Provider:      result.Provider,
			Model:         result.Model,
			WordCount:     metrics.WordCount,
			ItemCount:     metrics.ItemCount,
			SchemaPass:    metrics.SchemaPass,
			WordLimitPass: metrics.WordLimitPass,
			Coverage:      metrics.CitationCoverage,
			Repaired:      repaired,
		}
		if err := p.recorder.AppendRun(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
		}
	}

	return result, nil
}

// generate paces and invokes the provider.
func (p *Pipeline) generate(ctx context.Context, system, user string, temperature float64) (string, error) {
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx, p.provider.Name()); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}
	return p.provider.Generate(ctx, system, user, temperature)
}

// check validates a parsed output; unparsed responses become a root
// diagnostic so the repair prompt can name the failure.
func (p *Pipeline) check(out *model.Output, parsed bool, evidence []model.Highlight) (validate.Result, validate.CitationCheck) {
	if !parsed {
		return validate.Result{Errors: []string{"[root] Response was not valid JSON. Return ONLY a JSON object."}}, validate.CitationCheck{Valid: true}
	}

	vres := validate.Output(out)
	if !vres.OK {
		// Citation existence is only meaningful for a structurally valid
		// envelope.
		return vres, validate.CitationCheck{Valid: true}
	}
	return vres, validate.Citations(out, evidence)
}

func (p *Pipeline) trace(state State, format string, args ...any) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", state, fmt.Sprintf(format, args...))
	}
}
