package validate

import (
	"strings"
	"testing"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

func item(text string, citations ...string) model.OutputItem {
	return model.OutputItem{Text: text, Citations: citations, Support: model.SupportDirect}
}

func validOneMinute() *model.Output {
	return &model.Output{
		Mode: model.ModeOneMinute,
		Items: []model.OutputItem{
			item("The central thesis is that tiny gains compound.", "H1"),
			item("Environment design beats willpower for lasting change.", "H2"),
			item("Identity shifts make habits durable.", "H3"),
		},
	}
}

func hasError(r Result, fragment string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e, fragment) {
			return true
		}
	}
	return false
}

func TestOutput_Valid(t *testing.T) {
	r := Output(validOneMinute())
	if !r.OK {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Errors) != 0 {
		t.Errorf("valid output must carry no errors")
	}
}

func TestOutput_NilEnvelope(t *testing.T) {
	r := Output(nil)
	if r.OK {
		t.Fatal("nil output must fail")
	}
	if !hasError(r, "[root]") {
		t.Errorf("expected root diagnostic, got %v", r.Errors)
	}
}

func TestOutput_BaseShapeDiagnostics(t *testing.T) {
	out := &model.Output{
		Mode: "poetic",
		Items: []model.OutputItem{
			{Text: "", Citations: nil},
			{Text: "Cites a malformed ID.", Citations: []string{"X9"}},
		},
	}

	r := Output(out)
	if r.OK {
		t.Fatal("expected failure")
	}

	for _, want := range []string{
		`[mode] Invalid mode "poetic"`,
		"[items.0.text] Item text cannot be empty",
		"[items.0.citations] Every item must cite ≥1 highlight",
		"[items.1.citations.0] Citation must match H1, H2, etc.",
	} {
		if !hasError(r, want) {
			t.Errorf("missing diagnostic %q in %v", want, r.Errors)
		}
	}
}

func TestOutput_EmptyItems(t *testing.T) {
	r := Output(&model.Output{Mode: model.ModeOneMinute})
	if !hasError(r, "[items] Must produce ≥1 item") {
		t.Errorf("expected empty-items diagnostic, got %v", r.Errors)
	}
}

func TestOutput_BaseShapeShortCircuitsPolicy(t *testing.T) {
	// One item with no citations also violates the 3-5 item policy, but
	// phase 2 must not run when phase 1 failed.
	out := &model.Output{
		Mode:  model.ModeOneMinute,
		Items: []model.OutputItem{{Text: "Lonely claim."}},
	}

	r := Output(out)
	if hasError(r, "must have 3–5 items") {
		t.Errorf("policy diagnostics leaked past a base-shape failure: %v", r.Errors)
	}
	if !hasError(r, "[items.0.citations]") {
		t.Errorf("expected base-shape diagnostic, got %v", r.Errors)
	}
}

func TestOutput_WordLimit(t *testing.T) {
	out := validOneMinute()
	long := strings.Repeat("word ", 121)
	out.Items[0] = item(strings.TrimSpace(long), "H1")

	r := Output(out)
	if !hasError(r, "[items] 1-Minute: total words must be ≤ 120") {
		t.Errorf("expected word-limit diagnostic, got %v", r.Errors)
	}
}

func TestOutput_ItemCountRange(t *testing.T) {
	out := validOneMinute()
	out.Items = out.Items[:2] // below the 3-item floor

	r := Output(out)
	if !hasError(r, "[items] 1-Minute: must have 3–5 items") {
		t.Errorf("expected range diagnostic, got %v", r.Errors)
	}
}

func TestOutput_InterviewExactCount(t *testing.T) {
	out := &model.Output{
		Mode: model.ModeInterview,
		Items: []model.OutputItem{
			item("Compounding beats intensity in skill development.", "H1"),
			item("Structure environments so desired behaviors become the default.", "H2"),
			item("Scale new habits to two-minute starting versions.", "H3"),
			item("Track identity shifts, not just outcomes.", "H4"),
		},
	}

	r := Output(out)
	if !hasError(r, "[items] Interview: must have exactly 5 items") {
		t.Errorf("expected exact-count diagnostic, got %v", r.Errors)
	}
}

func TestOutput_InterviewPerItemLimit(t *testing.T) {
	long := item(strings.TrimSpace(strings.Repeat("insight ", 19)), "H1")
	out := &model.Output{
		Mode: model.ModeInterview,
		Items: []model.OutputItem{
			long,
			item("Short and sharp takeaway.", "H2"),
			item("Another compact professional insight.", "H3"),
			item("A fourth crisp bullet point.", "H4"),
			item("The fifth and final insight.", "H5"),
		},
	}

	r := Output(out)
	if !hasError(r, "[items.0.text] Interview: each item must be ≤ 18 words") {
		t.Errorf("expected per-item diagnostic, got %v", r.Errors)
	}
	// Only the long item is flagged
	if hasError(r, "[items.1.text]") {
		t.Errorf("compliant item flagged: %v", r.Errors)
	}
}

func TestOutput_KidFriendlyAnalogy(t *testing.T) {
	out := &model.Output{
		Mode: model.ModeKidFriendly,
		Items: []model.OutputItem{
			item("Small habits add up to big results.", "H1"),
			item("Being consistent matters more than being perfect.", "H2"),
		},
	}

	r := Output(out)
	if !hasError(r, "must include an analogy") {
		t.Errorf("expected analogy diagnostic, got %v", r.Errors)
	}

	// Any marker satisfies the rule, case-insensitively
	out.Items[1] = item("Think of habits Like A snowball rolling downhill.", "H2")
	if r := Output(out); !r.OK {
		t.Errorf("analogy marker should satisfy the rule: %v", r.Errors)
	}
}

func TestOutput_AllPolicyRulesReported(t *testing.T) {
	// Over the word limit AND under the item floor: both must surface.
	long := strings.TrimSpace(strings.Repeat("word ", 121))
	out := &model.Output{
		Mode: model.ModeOneMinute,
		Items: []model.OutputItem{
			item(long, "H1"),
			item("Second item.", "H2"),
		},
	}

	r := Output(out)
	if !hasError(r, "total words must be ≤ 120") || !hasError(r, "must have 3–5 items") {
		t.Errorf("expected both policy diagnostics, got %v", r.Errors)
	}
}

func TestOutput_InterviewHasNoTotalCeiling(t *testing.T) {
	// Five items of 18 words each exceed 120 total; interview allows it.
	text := strings.TrimSpace(strings.Repeat("word ", 18))
	items := make([]model.OutputItem, 5)
	for i := range items {
		items[i] = item(text, "H1")
	}

	r := Output(&model.Output{Mode: model.ModeInterview, Items: items})
	if !r.OK {
		t.Errorf("interview must not enforce a total ceiling: %v", r.Errors)
	}
}

func TestCitations(t *testing.T) {
	evidence := []model.Highlight{{ID: "H1"}, {ID: "H3"}}
	out := &model.Output{
		Mode: model.ModeOneMinute,
		Items: []model.OutputItem{
			item("Cites existing evidence.", "H1"),
			item("Cites a phantom highlight twice.", "H7", "H7"),
			item("Another phantom.", "H9", "H3"),
		},
	}

	check := Citations(out, evidence)
	if check.Valid {
		t.Fatal("expected invalid citations")
	}
	// Deduplicated, first-occurrence order
	if len(check.Missing) != 2 || check.Missing[0] != "H7" || check.Missing[1] != "H9" {
		t.Errorf("Missing = %v, want [H7 H9]", check.Missing)
	}
}

func TestCitations_AllValid(t *testing.T) {
	evidence := []model.Highlight{{ID: "H1"}, {ID: "H2"}}
	check := Citations(validOneMinute(), append(evidence, model.Highlight{ID: "H3"}))
	if !check.Valid || len(check.Missing) != 0 {
		t.Errorf("expected valid check, got %+v", check)
	}
}

func TestSortedMissing(t *testing.T) {
	c := CitationCheck{Missing: []string{"H9", "H10", "H2"}}
	got := c.SortedMissing()
	if got[0] != "H10" || got[1] != "H2" || got[2] != "H9" {
		t.Errorf("lexicographic order expected, got %v", got)
	}
	// Original order untouched
	if c.Missing[0] != "H9" {
		t.Error("SortedMissing must not mutate the check")
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"two  words", 2},
		{"  padded   sequence of words  ", 4},
		{"line\nbreaks\tcount too", 4},
	}
	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
