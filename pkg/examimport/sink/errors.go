// Package sink holds the destinations an import run can submit exams to.
package sink

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is returned by AdminClient.Submit before a successful Login.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a rejection reported by the admin API.
type APIError struct {
	Op      string // "login", "create exam"
	Status  int    // HTTP status
	Code    int    // envelope code
	Message string
	// Err is set when the response body was not a readable envelope.
	Err error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s (status %d, code %d)", e.Op, e.Message, e.Status, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s: status %d, code %d", e.Op, e.Status, e.Code)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}
