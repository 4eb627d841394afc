package parser

import (
	"strconv"

	"github.com/ministudy/examimport-go/pkg/examimport/models"
)

// Coercion records an exam field value that was replaced or dropped.
type Coercion struct {
	Field string
	Value string
	// Fallback is the value used instead; empty when the field was omitted.
	Fallback string
}

// ParseExamHeader reads the exam-level fields of a row. It returns false
// when the row carries no exam_title. Unusable optional values fall back to
// their defaults and are reported as coercions.
func ParseExamHeader(f Fields) (models.Exam, []Coercion, bool) {
	title := f.Get(FieldExamTitle)
	if title == "" {
		return models.Exam{}, nil, false
	}

	e := models.Exam{
		Title:       title,
		Description: f.Get(FieldExamDescription),
		PassScore:   models.DefaultPassScore,
		Questions:   []models.Question{},
	}
	var coerced []Coercion

	if raw := f.Get(FieldExamStatus); raw != "" {
		if s, ok := models.ParseExamStatus(raw); ok {
			e.Status = s
		} else {
			coerced = append(coerced, Coercion{Field: FieldExamStatus, Value: raw})
		}
	}
	if raw := f.Get(FieldTargetRole); raw != "" {
		if r, ok := models.ParseTargetRole(raw); ok {
			e.TargetRole = r
		} else {
			coerced = append(coerced, Coercion{Field: FieldTargetRole, Value: raw})
		}
	}
	if raw := f.Get(FieldTimeLimitMinutes); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			e.TimeLimitMinutes = n
		} else {
			coerced = append(coerced, Coercion{Field: FieldTimeLimitMinutes, Value: raw, Fallback: "0"})
		}
	}
	if raw := f.Get(FieldPassScore); raw != "" {
		if n, ok := positiveInt(raw); ok {
			e.PassScore = n
		} else {
			coerced = append(coerced, Coercion{Field: FieldPassScore, Value: raw, Fallback: strconv.Itoa(models.DefaultPassScore)})
		}
	}
	return e, coerced, true
}

// sameHeader reports whether two exam headers carry equal metadata.
func sameHeader(a, b models.Exam) bool {
	return a.Title == b.Title &&
		a.Description == b.Description &&
		a.Status == b.Status &&
		a.TargetRole == b.TargetRole &&
		a.TimeLimitMinutes == b.TimeLimitMinutes &&
		a.PassScore == b.PassScore
}
