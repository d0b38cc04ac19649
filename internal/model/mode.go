package model

import (
	"fmt"
	"strings"
)

// Mode is a named summary style with its own structural policy.
type Mode string

const (
	ModeOneMinute   Mode = "oneMinute"   // Thesis + key points + conclusion
	ModeTechnical   Mode = "technical"   // Frameworks, mechanisms, tradeoffs
	ModeKidFriendly Mode = "kidFriendly" // Simple language, analogy required
	ModeInterview   Mode = "interview"   // Exactly 5 bullets, each ≤18 words
)

// Modes lists all known modes in display order.
var Modes = []Mode{ModeOneMinute, ModeTechnical, ModeKidFriendly, ModeInterview}

// ModePolicy is the declarative rule set for one mode. Validation dispatches
// on this data rather than per-mode code paths, so adding a mode is a table
// entry, not a new checker.
type ModePolicy struct {
	Label       string
	Description string

	WordLimit     int  // Total words across all items; 0 means no ceiling
	MinItems      int  // Inclusive lower bound on item count
	MaxItems      int  // Inclusive upper bound (== MinItems for exact counts)
	ItemWordLimit int  // Per-item word ceiling; 0 means no per-item ceiling
	NeedsAnalogy  bool // Concatenated item text must contain an analogy marker

	Temperature float64 // Generation temperature for this mode
}

// ModePolicies is the authoritative policy table.
var ModePolicies = map[Mode]ModePolicy{
	ModeOneMinute: {
		Label:       "1-Minute",
		Description: "Thesis + key points + conclusion in ≤120 words",
		WordLimit:   120,
		MinItems:    3,
		MaxItems:    5,
		Temperature: 0.3,
	},
	ModeTechnical: {
		Label:       "Technical",
		Description: "Frameworks, mechanisms, tradeoffs in ≤250 words",
		WordLimit:   250,
		MinItems:    4,
		MaxItems:    8,
		Temperature: 0.3,
	},
	ModeKidFriendly: {
		Label:        "Kid-Friendly",
		Description:  "Simple language + analogies in ≤120 words",
		WordLimit:    120,
		MinItems:     2,
		MaxItems:     4,
		NeedsAnalogy: true,
		Temperature:  0.5,
	},
	ModeInterview: {
		Label:         "Interview",
		Description:   "Exactly 5 bullets, each ≤18 words",
		MinItems:      5,
		MaxItems:      5,
		ItemWordLimit: 18,
		Temperature:   0.3,
	},
}

// AnalogyMarkers are the phrases that satisfy the kid-friendly analogy rule.
// Matching is case-folded substring containment over all item texts joined.
var AnalogyMarkers = []string{
	"imagine", "like a", "think of", "picture",
	"as if", "just as", "similar to", "pretend",
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := ModePolicies[m]; !ok {
		names := make([]string, len(Modes))
		for i, mode := range Modes {
			names[i] = string(mode)
		}
		return "", fmt.Errorf("invalid mode %q (choose one of: %s)", s, strings.Join(names, ", "))
	}
	return m, nil
}

// Policy returns the policy for a known mode.
func (m Mode) Policy() ModePolicy {
	return ModePolicies[m]
}

// Known reports whether the mode is one of the enumerated values.
func (m Mode) Known() bool {
	_, ok := ModePolicies[m]
	return ok
}
