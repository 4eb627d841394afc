package models

import "strings"

// ExamStatus is the publication state of an exam.
type ExamStatus string

const (
	StatusDraft     ExamStatus = "draft"
	StatusPublished ExamStatus = "published"
	StatusArchived  ExamStatus = "archived"
)

// TargetRole is the audience an exam is assigned to.
type TargetRole string

const (
	RoleEmployee TargetRole = "employee"
	RoleManager  TargetRole = "manager"
	RoleAll      TargetRole = "all"
)

// ParseExamStatus matches s case-insensitively against the known statuses.
func ParseExamStatus(s string) (ExamStatus, bool) {
	switch v := ExamStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusDraft, StatusPublished, StatusArchived:
		return v, true
	}
	return "", false
}

// ParseTargetRole matches s case-insensitively against the known roles.
func ParseTargetRole(s string) (TargetRole, bool) {
	switch v := TargetRole(strings.ToLower(strings.TrimSpace(s))); v {
	case RoleEmployee, RoleManager, RoleAll:
		return v, true
	}
	return "", false
}

const (
	// DefaultPassScore applies when pass_score is absent or unusable.
	DefaultPassScore = 60
	// DefaultQuestionScore applies when question_score is absent or unusable.
	DefaultQuestionScore = 1
)

// Exam is the parent record keyed by Title.
type Exam struct {
	// Title is the grouping key and must be non-empty.
	Title string `json:"title"`
	// Description is optional free text.
	Description string `json:"description,omitempty"`
	// Status is optional; the sink applies its own default when empty.
	Status ExamStatus `json:"status,omitempty"`
	// TargetRole is optional; the sink applies its own default when empty.
	TargetRole TargetRole `json:"target_role,omitempty"`
	// TimeLimitMinutes of 0 means unlimited.
	TimeLimitMinutes int `json:"time_limit_minutes"`
	// PassScore is the minimum total score to pass.
	PassScore int `json:"pass_score"`
	// Questions in source row order.
	Questions []Question `json:"questions"`
}

// TotalScore sums the scores of all questions.
func (e Exam) TotalScore() int {
	total := 0
	for _, q := range e.Questions {
		total += q.Score
	}
	return total
}

// Clone returns a deep copy so the caller can't mutate shared slices.
func (e Exam) Clone() Exam {
	out := e
	out.Questions = make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		q.Options = append([]Option(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}
