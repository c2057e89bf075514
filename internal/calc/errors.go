package calc

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes orchestrator failures.
type ErrorCode string

const (
	// ErrCodeInputType indicates input that is not a string.
	ErrCodeInputType ErrorCode = "INPUT_TYPE"

	// ErrCodeValidation indicates an invalid variable name or an unset
	// assignment value.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeEvaluation indicates the evaluator rejected the expression.
	ErrCodeEvaluation ErrorCode = "EVALUATION"

	// ErrCodeDomain indicates a factorial of a negative or non-integer argument.
	ErrCodeDomain ErrorCode = "DOMAIN"

	// ErrCodeOverflow indicates a factorial too large to represent.
	ErrCodeOverflow ErrorCode = "OVERFLOW"

	// ErrCodePersistence indicates a store read or write failure.
	ErrCodePersistence ErrorCode = "PERSISTENCE"
)

// Error is a user-visible failure. Error() renders the text shown to the
// user, always prefixed "Error:".
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is the description without the "Error:" prefix.
	Message string

	// Token is the offending token reported by the evaluator, if any.
	Token string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("Error: %s (at: %s)", e.Message, e.Token)
	}
	return "Error: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsInputType reports whether err is an input type error.
func IsInputType(err error) bool { return hasCode(err, ErrCodeInputType) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsEvaluation reports whether err is an evaluation error.
func IsEvaluation(err error) bool { return hasCode(err, ErrCodeEvaluation) }

// IsDomain reports whether err is a factorial domain error.
func IsDomain(err error) bool { return hasCode(err, ErrCodeDomain) }

// IsOverflow reports whether err is a factorial overflow error.
func IsOverflow(err error) bool { return hasCode(err, ErrCodeOverflow) }

// IsPersistence reports whether err is a persistence error.
func IsPersistence(err error) bool { return hasCode(err, ErrCodePersistence) }

func newInputTypeError(v any) *Error {
	return &Error{
		Code:    ErrCodeInputType,
		Message: "Invalid input type",
		Err:     fmt.Errorf("got %T", v),
	}
}

func newInvalidNameError(name string, cause error) *Error {
	return &Error{
		Code: ErrCodeValidation,
		Message: fmt.Sprintf("Invalid variable name '%s'. Must start with a letter or underscore "+
			"and contain only alphanumeric characters or underscores.", name),
		Err: cause,
	}
}

func newUnsetValueError(name, reason string, cause error) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("Could not set variable '%s': the value expression resulted in %s.", name, reason),
		Err:     cause,
	}
}

func newPersistenceError(message string, cause error) *Error {
	return &Error{Code: ErrCodePersistence, Message: message, Err: cause}
}
