package reservation

import (
	"errors"
	"fmt"
)

// Error codes, one per caller-visible failure class.
const (
	CodeValidation        = "validationError"
	CodeConflict          = "conflictError"
	CodeNotFound          = "notFoundError"
	CodeIllegalTransition = "illegalTransition"
)

// Error is a caller-visible reservation failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewIllegalTransitionError(msg string) error {
	return &Error{Code: CodeIllegalTransition, Message: msg}
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsConflict reports whether err is a slot conflict. Callers should pick a
// different slot, not retry the same one.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

// IsNotFound reports whether err refers to an unknown entity.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsIllegalTransition reports whether err is a rejected status transition.
func IsIllegalTransition(err error) bool { return hasCode(err, CodeIllegalTransition) }
