package models

import "strings"

// QuestionType is the answer cardinality of a question.
type QuestionType string

const (
	// QuestionSingle accepts exactly one option.
	QuestionSingle QuestionType = "single"
	// QuestionMultiple accepts one or more options.
	QuestionMultiple QuestionType = "multiple"
)

// ParseQuestionType matches s case-insensitively against the known types.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(s))) {
	case QuestionSingle:
		return QuestionSingle, true
	case QuestionMultiple:
		return QuestionMultiple, true
	}
	return "", false
}

// Question is a single exam question with its options.
type Question struct {
	// Type is single or multiple.
	Type QuestionType `json:"type"`
	// Stem is the question text.
	Stem string `json:"stem"`
	// Score is the points awarded for a correct answer.
	Score int `json:"score"`
	// Analysis is the optional explanation shown after answering.
	Analysis string `json:"analysis,omitempty"`
	// Options are the answer options in source order.
	Options []Option `json:"options"`
}

// HasCorrect reports whether at least one option is marked correct.
func (q Question) HasCorrect() bool {
	for _, o := range q.Options {
		if o.IsCorrect {
			return true
		}
	}
	return false
}
