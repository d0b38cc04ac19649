// Package validate enforces the per-mode output contract: base shape,
// declarative mode policy, and citation existence.
package validate

import (
	"fmt"
	"sort"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

// Result carries the structured pass/fail outcome of contract validation.
// Each error is one human-readable diagnostic tagged with its field path,
// e.g. "[items.2.citations] Every item must cite ≥1 highlight".
type Result struct {
	OK     bool
	Errors []string
}

// CitationCheck is the outcome of checking citations against an evidence
// set. Missing is deduplicated, in first-occurrence order.
type CitationCheck struct {
	Valid   bool
	Missing []string
}

// Output runs the two-phase contract check. Phase 1 verifies base shape
// (known mode, ≥1 item, non-empty texts, ≥1 well-formed citation per item)
// and short-circuits on failure, since mode policies are meaningless for a
// structurally invalid envelope. Phase 2 applies the mode's declarative
// policy; every policy rule is evaluated so a repair prompt can address all
// violations in one pass.
func Output(out *model.Output) Result {
	if out == nil {
		return Result{Errors: []string{"[root] Output is not a JSON object"}}
	}

	if errs := baseShape(out); len(errs) > 0 {
		return Result{Errors: errs}
	}

	if errs := modePolicy(out); len(errs) > 0 {
		return Result{Errors: errs}
	}

	return Result{OK: true}
}

// baseShape collects phase-1 diagnostics.
func baseShape(out *model.Output) []string {
	var errs []string

	if !out.Mode.Known() {
		errs = append(errs, fmt.Sprintf("[mode] Invalid mode %q", string(out.Mode)))
	}
	if len(out.Items) == 0 {
		errs = append(errs, "[items] Must produce ≥1 item")
	}

	for i, item := range out.Items {
		if item.Text == "" {
			errs = append(errs, fmt.Sprintf("[items.%d.text] Item text cannot be empty", i))
		}
		if len(item.Citations) == 0 {
			errs = append(errs, fmt.Sprintf("[items.%d.citations] Every item must cite ≥1 highlight", i))
		}
		for j, c := range item.Citations {
			if !model.HighlightIDPattern.MatchString(c) {
				errs = append(errs, fmt.Sprintf("[items.%d.citations.%d] Citation must match H1, H2, etc.", i, j))
			}
		}
	}

	return errs
}

// modePolicy collects phase-2 diagnostics from the mode's policy record.
// No rule short-circuits another.
func modePolicy(out *model.Output) []string {
	policy := out.Mode.Policy()
	var errs []string

	if policy.WordLimit > 0 && TotalWords(out.Items) > policy.WordLimit {
		errs = append(errs, fmt.Sprintf("[items] %s: total words must be ≤ %d", policy.Label, policy.WordLimit))
	}

	if n := len(out.Items); n < policy.MinItems || n > policy.MaxItems {
		if policy.MinItems == policy.MaxItems {
			errs = append(errs, fmt.Sprintf("[items] %s: must have exactly %d items", policy.Label, policy.MinItems))
		} else {
			errs = append(errs, fmt.Sprintf("[items] %s: must have %d–%d items", policy.Label, policy.MinItems, policy.MaxItems))
		}
	}

	if policy.ItemWordLimit > 0 {
		for i, item := range out.Items {
			if CountWords(item.Text) > policy.ItemWordLimit {
				errs = append(errs, fmt.Sprintf("[items.%d.text] %s: each item must be ≤ %d words", i, policy.Label, policy.ItemWordLimit))
			}
		}
	}

	if policy.NeedsAnalogy && !containsAnalogy(out.Items) {
		errs = append(errs, fmt.Sprintf(`[items] %s: must include an analogy ("imagine", "like a", "think of", etc.)`, policy.Label))
	}

	return errs
}

// Citations checks every cited ID against the evidence set the output was
// generated from. This deliberately stays separate from Output: a
// structurally perfect envelope can still cite outside its grounding set,
// and that failure needs a different repair message.
func Citations(out *model.Output, evidence []model.Highlight) CitationCheck {
	ids := make(map[string]bool, len(evidence))
	for _, h := range evidence {
		ids[h.ID] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, item := range out.Items {
		for _, c := range item.Citations {
			if !ids[c] && !seen[c] {
				seen[c] = true
				missing = append(missing, c)
			}
		}
	}

	return CitationCheck{Valid: len(missing) == 0, Missing: missing}
}

// SortedMissing returns the missing IDs in stable lexicographic order, for
// deterministic operator output.
func (c CitationCheck) SortedMissing() []string {
	out := append([]string(nil), c.Missing...)
	sort.Strings(out)
	return out
}
