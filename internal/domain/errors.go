package domain

import (
	"errors"
	"strings"
)

var ErrTaskNotFound = errors.New("task: not found")

// ValidationError reports fields that violate the Task invariants. It is
// returned by the repository and surfaced as a 400 at the HTTP boundary.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "task: validation failed: " + strings.Join(e.Fields, "; ")
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
