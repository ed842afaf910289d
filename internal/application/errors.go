package application

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound signals that the referenced id has no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists signals a write rejected for violating email uniqueness.
	ErrEmailExists = errors.New("email already exists")
)

// ValidationError carries the ordered field messages produced by the
// validator. It is raised before any storage access.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
