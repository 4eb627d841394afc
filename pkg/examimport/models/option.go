// Package models defines the records reconstructed from an exam import file.
package models

// Option is one answer option of a question.
type Option struct {
	// Label is a single upper-case letter identifying the option.
	Label string `json:"label"`
	// Content is the option text.
	Content string `json:"content"`
	// IsCorrect marks the option as part of the answer key.
	IsCorrect bool `json:"is_correct"`
	// SortOrder is the position of the option in its source cell.
	SortOrder int `json:"sort_order"`
}
