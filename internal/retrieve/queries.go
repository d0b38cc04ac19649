package retrieve

import "github.com/SanjanaSoma11/book-notes-summarizer/internal/model"

// QueryPlans are the static per-mode retrieval probes. Each query targets a
// different semantic facet of the mode's output, so a highlight qualifies
// by excelling at any one of them.
var QueryPlans = map[model.Mode][]string{
	model.ModeOneMinute: {
		"main thesis and central argument of the book",
		"key supporting points and evidence",
		"conclusion and final takeaways",
	},
	model.ModeTechnical: {
		"frameworks, models, and formal definitions",
		"mechanisms, processes, and how things work",
		"tradeoffs, limitations, and nuances",
		"technical terminology and precise concepts",
	},
	model.ModeKidFriendly: {
		"core idea explained simply",
		"concrete examples and real-world comparisons",
		"analogies, metaphors, and relatable descriptions",
	},
	model.ModeInterview: {
		"actionable skills and competencies",
		"key insights and unique learnings",
		"professional takeaways and applications",
		"quantifiable outcomes and results",
		"unique perspectives that show expertise",
	},
}
