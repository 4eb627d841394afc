// Package parser turns tabular exam files into exam records.
package parser

import (
	"strings"
	"unicode"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
)

// Canonical field names recognised in the header row.
const (
	FieldExamTitle        = "exam_title"
	FieldExamDescription  = "exam_description"
	FieldExamStatus       = "exam_status"
	FieldTargetRole       = "target_role"
	FieldTimeLimitMinutes = "time_limit_minutes"
	FieldPassScore        = "pass_score"
	FieldQuestionType     = "question_type"
	FieldQuestionStem     = "question_stem"
	FieldQuestionScore    = "question_score"
	FieldQuestionAnalysis = "question_analysis"
	FieldOptions          = "options"
)

var canonicalFields = map[string]bool{
	FieldExamTitle:        true,
	FieldExamDescription:  true,
	FieldExamStatus:       true,
	FieldTargetRole:       true,
	FieldTimeLimitMinutes: true,
	FieldPassScore:        true,
	FieldQuestionType:     true,
	FieldQuestionStem:     true,
	FieldQuestionScore:    true,
	FieldQuestionAnalysis: true,
	FieldOptions:          true,
}

// Normalize maps a raw header to its canonical field name.
// "Exam Title", " exam_title " and "EXAM_TITLE" all yield "exam_title".
// Runs of whitespace collapse to a single underscore.
func Normalize(header string) string {
	fields := strings.FieldsFunc(strings.ToLower(header), unicode.IsSpace)
	return strings.Join(fields, "_")
}

// FieldIndex maps canonical field names to column positions.
type FieldIndex map[string]int

// NewFieldIndex indexes headers by canonical name. When two headers
// normalize to the same name the first one wins.
func NewFieldIndex(headers []string) FieldIndex {
	idx := make(FieldIndex, len(headers))
	for col, h := range headers {
		name := Normalize(h)
		if name == "" {
			continue
		}
		if _, dup := idx[name]; dup {
			continue
		}
		idx[name] = col
	}
	return idx
}

// HasCanonical reports whether any indexed header is a canonical field.
func (idx FieldIndex) HasCanonical() bool {
	for name := range idx {
		if canonicalFields[name] {
			return true
		}
	}
	return false
}

// Fields binds the index to one row.
func (idx FieldIndex) Fields(row models.Row) Fields {
	return Fields{index: idx, values: row.Values}
}

// Fields reads canonical fields out of a single row.
type Fields struct {
	index  FieldIndex
	values []string
}

// Get returns the trimmed value of a canonical field, or "" if the column
// is absent or the row is too short.
func (f Fields) Get(name string) string {
	col, ok := f.index[name]
	if !ok || col >= len(f.values) {
		return ""
	}
	return strings.TrimSpace(f.values[col])
}
