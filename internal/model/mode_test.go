package model

import "testing"

func TestParseMode(t *testing.T) {
	for _, mode := range Modes {
		got, err := ParseMode(string(mode))
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", mode, err)
		}
		if got != mode {
			t.Errorf("ParseMode(%q) = %q", mode, got)
		}
	}

	for _, bad := range []string{"", "oneminute", "Technical", "haiku"} {
		if _, err := ParseMode(bad); err == nil {
			t.Errorf("ParseMode(%q) should fail", bad)
		}
	}
}

func TestModePolicies(t *testing.T) {
	tests := []struct {
		mode          Mode
		wordLimit     int
		minItems      int
		maxItems      int
		itemWordLimit int
		needsAnalogy  bool
	}{
		{ModeOneMinute, 120, 3, 5, 0, false},
		{ModeTechnical, 250, 4, 8, 0, false},
		{ModeKidFriendly, 120, 2, 4, 0, true},
		{ModeInterview, 0, 5, 5, 18, false},
	}

	for _, tt := range tests {
		p := tt.mode.Policy()
		if p.WordLimit != tt.wordLimit {
			t.Errorf("%s: WordLimit = %d, want %d", tt.mode, p.WordLimit, tt.wordLimit)
		}
		if p.MinItems != tt.minItems || p.MaxItems != tt.maxItems {
			t.Errorf("%s: items %d-%d, want %d-%d", tt.mode, p.MinItems, p.MaxItems, tt.minItems, tt.maxItems)
		}
		if p.ItemWordLimit != tt.itemWordLimit {
			t.Errorf("%s: ItemWordLimit = %d, want %d", tt.mode, p.ItemWordLimit, tt.itemWordLimit)
		}
		if p.NeedsAnalogy != tt.needsAnalogy {
			t.Errorf("%s: NeedsAnalogy = %v", tt.mode, p.NeedsAnalogy)
		}
	}
}

func TestModeKnown(t *testing.T) {
	if !ModeOneMinute.Known() {
		t.Error("oneMinute should be known")
	}
	if Mode("ballad").Known() {
		t.Error("ballad should be unknown")
	}
}

func TestHighlightIDPattern(t *testing.T) {
	valid := []string{"H1", "H9", "H10", "H137"}
	invalid := []string{"", "H", "h1", "H1a", "1H", "H-1", " H1"}

	for _, id := range valid {
		if !HighlightIDPattern.MatchString(id) {
			t.Errorf("%q should be valid", id)
		}
	}
	for _, id := range invalid {
		if HighlightIDPattern.MatchString(id) {
			t.Errorf("%q should be invalid", id)
		}
	}
}

func TestHighlightMap(t *testing.T) {
	hs := []Highlight{{ID: "H1", Text: "one"}, {ID: "H2", Text: "two"}}
	m := HighlightMap(hs)
	if len(m) != 2 || m["H2"].Text != "two" {
		t.Errorf("unexpected map: %v", m)
	}
}
