// Package apperror classifies every failure a command can produce into a small
// set of user-facing kinds. Domain packages declare their sentinel errors with
// New so callers can match them with errors.Is and still recover the kind.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindLowConfidence      Kind = "low_confidence"
	KindCategoryUnresolved Kind = "category_unresolved"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindGoalNotFound       Kind = "goal_not_found"
	KindCategoryNotFound   Kind = "category_not_found"
	KindBudgetNotFound     Kind = "budget_not_found"
	KindUnavailable        Kind = "understanding_service_unavailable"
	KindValidation         Kind = "validation_error"
	KindInternal           Kind = "internal"
)

type Error struct {
	Kind        Kind
	Message     string
	Suggestions []string
	Cause       error
	sentinel    *Error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports a match against the sentinel a detailed error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.sentinel != nil && e.sentinel == t)
}

// WithSuggestions derives a detailed error that still matches e.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	derived := e.derive()
	derived.Suggestions = append([]string(nil), suggestions...)
	return derived
}

// Wrap derives an error that matches e and carries cause.
func (e *Error) Wrap(cause error) *Error {
	derived := e.derive()
	derived.Cause = cause
	return derived
}

// Withf derives an error with a more specific message that still matches e.
func (e *Error) Withf(format string, args ...any) *Error {
	derived := e.derive()
	derived.Message = fmt.Sprintf(format, args...)
	return derived
}

func (e *Error) derive() *Error {
	root := e
	if e.sentinel != nil {
		root = e.sentinel
	}
	return &Error{
		Kind:        e.Kind,
		Message:     e.Message,
		Suggestions: e.Suggestions,
		Cause:       e.Cause,
		sentinel:    root,
	}
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func SuggestionsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Suggestions
	}
	return nil
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
