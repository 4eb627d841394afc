package parser

import (
	"testing"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"exam_title", "exam_title"},
		{"Exam Title", "exam_title"},
		{"EXAM_TITLE", "exam_title"},
		{"  Question   Stem ", "question_stem"},
		{"exam  title", "exam_title"},
		{"Pass\tScore", "pass_score"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		result := Normalize(tt.input)
		if result != tt.expected {
			t.Errorf("Normalize(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestFieldsGet(t *testing.T) {
	headers := []string{"Exam Title", "unrelated", "PASS_SCORE", "options"}
	idx := NewFieldIndex(headers)
	f := idx.Fields(models.Row{Line: 2, Values: []string{" E1 ", "x", "70"}})

	if got := f.Get(FieldExamTitle); got != "E1" {
		t.Errorf("exam_title = %q, expected %q", got, "E1")
	}
	if got := f.Get(FieldPassScore); got != "70" {
		t.Errorf("pass_score = %q, expected %q", got, "70")
	}
	// column exists but row is short
	if got := f.Get(FieldOptions); got != "" {
		t.Errorf("options = %q, expected empty", got)
	}
	// column absent entirely
	if got := f.Get(FieldQuestionStem); got != "" {
		t.Errorf("question_stem = %q, expected empty", got)
	}
}

func TestFieldIndexFirstDeclaredWins(t *testing.T) {
	idx := NewFieldIndex([]string{"Exam Title", "exam_title"})
	f := idx.Fields(models.Row{Values: []string{"first", "second"}})
	if got := f.Get(FieldExamTitle); got != "first" {
		t.Errorf("exam_title = %q, expected %q", got, "first")
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	headers := []string{" Exam Title", "question_TYPE", "Options "}
	row := models.Row{Line: 2, Values: []string{"E1", "single", "a:true|b:false"}}

	first := NewFieldIndex(headers).Fields(row)
	second := NewFieldIndex(headers).Fields(row)
	for _, name := range []string{FieldExamTitle, FieldQuestionType, FieldOptions, FieldPassScore} {
		if first.Get(name) != second.Get(name) {
			t.Errorf("%s: %q != %q", name, first.Get(name), second.Get(name))
		}
	}
	for _, h := range headers {
		if Normalize(Normalize(h)) != Normalize(h) {
			t.Errorf("Normalize not idempotent for %q", h)
		}
	}
}

func TestHasCanonical(t *testing.T) {
	tests := []struct {
		headers  []string
		expected bool
	}{
		{nil, false},
		{[]string{" "}, false},
		{[]string{"Name", "Notes"}, false},
		{[]string{"Notes", "Question Stem"}, true},
		{[]string{"EXAM_TITLE"}, true},
	}

	for _, tt := range tests {
		if result := NewFieldIndex(tt.headers).HasCanonical(); result != tt.expected {
			t.Errorf("HasCanonical(%q) = %v, expected %v", tt.headers, result, tt.expected)
		}
	}
}
