package models

// Receipt is what a sink reports back for an accepted exam.
type Receipt struct {
	// ID is the identifier assigned by the sink.
	ID string `json:"id"`
	// QuestionCount as reported by the sink, if any.
	QuestionCount *int `json:"question_count,omitempty"`
	// TotalScore as reported by the sink, if any.
	TotalScore *int `json:"total_score,omitempty"`
}

// Outcome is the dispatch result of one exam group.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result records what happened to one exam group.
type Result struct {
	Title     string   `json:"title"`
	Questions int      `json:"questions"`
	Outcome   Outcome  `json:"outcome"`
	Receipt   *Receipt `json:"receipt,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Summary aggregates a whole import run.
type Summary struct {
	// RunID correlates log lines and sink requests of one run.
	RunID string `json:"run_id"`
	// Groups is the number of exam groups seen.
	Groups int `json:"groups"`
	// Skipped counts groups without questions.
	Skipped int `json:"skipped"`
	// Submitted counts groups the sink accepted.
	Submitted int `json:"submitted"`
	// Failed counts groups the sink rejected or could not be reached for.
	Failed int `json:"failed"`
	// TotalQuestions sums questions over every group regardless of outcome.
	TotalQuestions int `json:"total_questions"`
	// Results holds one entry per group in dispatch order.
	Results []Result `json:"results"`
}
