package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/SanjanaSoma11/book-notes-summarizer/internal/model"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractJSON pulls the JSON payload out of a response that may wrap it in
// markdown fences or surround it with prose. Fenced blocks win; otherwise
// the outermost {...} span is taken; otherwise the trimmed raw text.
func ExtractJSON(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		return raw[first : last+1]
	}

	return strings.TrimSpace(raw)
}

// ParseOutput extracts and decodes an output envelope from a raw response.
// Unparseable responses report ok=false rather than an error: malformed
// JSON is a recoverable condition with its own repair path.
func ParseOutput(raw string) (*model.Output, bool) {
	var out model.Output
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &out); err != nil {
		return nil, false
	}
	return &out, true
}
