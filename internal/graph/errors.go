package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a scheduling failure. Every kind is a rejected request the
// caller can correct and resubmit.
type Kind string

const (
	KindEmptyInput        Kind = "empty_input"
	KindInvalidTask       Kind = "invalid_task"
	KindDuplicateTitle    Kind = "duplicate_title"
	KindUnknownDependency Kind = "unknown_dependency"
	KindCycleDetected     Kind = "cycle_detected"
)

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrEmptyInput        = &Error{Kind: KindEmptyInput}
	ErrInvalidTask       = &Error{Kind: KindInvalidTask}
	ErrDuplicateTitle    = &Error{Kind: KindDuplicateTitle}
	ErrUnknownDependency = &Error{Kind: KindUnknownDependency}
	ErrCycleDetected     = &Error{Kind: KindCycleDetected}
)

// Error is a structured scheduling failure.
type Error struct {
	Kind Kind

	// Titles holds the colliding titles for KindDuplicateTitle.
	Titles []string
	// Dependency and Dependent name the first unresolved reference.
	Dependency string
	Dependent  string
	// Remaining lists the tasks left unplaced when a cycle was found.
	Remaining []string
	// Detail carries the reason for KindInvalidTask.
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEmptyInput:
		return "no tasks provided"
	case KindInvalidTask:
		return "invalid task: " + e.Detail
	case KindDuplicateTitle:
		return "duplicate task titles found: " + strings.Join(e.Titles, ", ")
	case KindUnknownDependency:
		return fmt.Sprintf("unknown dependency '%s' referenced by '%s'", e.Dependency, e.Dependent)
	case KindCycleDetected:
		return "cycle detected in dependencies"
	default:
		return string(e.Kind)
	}
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewCycleError reports tasks left unplaced after ordering.
func NewCycleError(remaining []string) *Error {
	return &Error{Kind: KindCycleDetected, Remaining: remaining}
}

// KindOf returns the kind of a scheduling failure, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a caller-fixable scheduling failure.
func IsValidation(err error) bool {
	return KindOf(err) != ""
}
