package parser

import (
	"fmt"
	"strconv"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
)

// stemPreview bounds how much of a stem appears in diagnostics.
const stemPreview = 30

// RejectReason names why a row did not yield a question.
type RejectReason string

const (
	RejectNoType        RejectReason = "no question type"
	RejectBadType       RejectReason = "unknown question type"
	RejectEmptyStem     RejectReason = "empty stem"
	RejectTooFewOptions RejectReason = "fewer than 2 options"
	RejectNoCorrect     RejectReason = "no correct option"
)

// Rejection describes a row whose question was dropped.
type Rejection struct {
	Reason RejectReason
	// Detail is the offending value or a stem preview.
	Detail string
	// Skipped lists option descriptors dropped while parsing.
	Skipped []SkippedOption
}

// Silent reports whether the rejection is just a row without question data.
func (r *Rejection) Silent() bool {
	return r.Reason == RejectNoType
}

func (r *Rejection) String() string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

// QuestionResult is what BuildQuestion produced for one row.
type QuestionResult struct {
	Question models.Question
	// Skipped lists option descriptors dropped from an accepted question.
	Skipped []SkippedOption
	// ScoreDefaulted is set when a non-empty question_score was unusable.
	ScoreDefaulted string
}

// BuildQuestion assembles the question carried by a row. The checks run in
// order: type, stem, option count, correct option. Score never rejects a
// row; it falls back to models.DefaultQuestionScore.
func BuildQuestion(f Fields) (QuestionResult, *Rejection) {
	rawType := f.Get(FieldQuestionType)
	if rawType == "" {
		return QuestionResult{}, &Rejection{Reason: RejectNoType}
	}
	qt, ok := models.ParseQuestionType(rawType)
	if !ok {
		return QuestionResult{}, &Rejection{Reason: RejectBadType, Detail: rawType}
	}

	stem := f.Get(FieldQuestionStem)
	if stem == "" {
		return QuestionResult{}, &Rejection{Reason: RejectEmptyStem}
	}

	parsed := ParseOptions(f.Get(FieldOptions))
	if len(parsed.Options) < 2 {
		return QuestionResult{}, &Rejection{Reason: RejectTooFewOptions, Detail: preview(stem), Skipped: parsed.Skipped}
	}

	q := models.Question{
		Type:     qt,
		Stem:     stem,
		Analysis: f.Get(FieldQuestionAnalysis),
		Options:  parsed.Options,
	}
	if !q.HasCorrect() {
		return QuestionResult{}, &Rejection{Reason: RejectNoCorrect, Detail: preview(stem), Skipped: parsed.Skipped}
	}

	res := QuestionResult{Skipped: parsed.Skipped}
	raw := f.Get(FieldQuestionScore)
	score, ok := positiveInt(raw)
	if !ok {
		score = models.DefaultQuestionScore
		if raw != "" {
			res.ScoreDefaulted = raw
		}
	}
	q.Score = score
	res.Question = q
	return res, nil
}

// positiveInt parses s as an integer greater than zero.
func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= stemPreview {
		return s
	}
	return string(r[:stemPreview]) + "..."
}
