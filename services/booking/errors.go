package booking

import (
	"errors"
	"fmt"
)

// Error codes reported by the booking and payment operations.
const (
	CodeNotFound               = "notFound"
	CodeValidationRejected     = "validationRejected"
	CodeStateError             = "stateError"
	CodeConflict               = "conflict"
	CodePaymentFailed          = "paymentFailed"
	CodeReconciliationRequired = "reconciliationRequired"
)

// Error is a domain failure with a stable code the HTTP layer maps to a status.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, msg string, err error) error {
	return &Error{Code: code, Message: msg, Err: err}
}

func NewNotFoundError(id string) error {
	return newError(CodeNotFound, fmt.Sprintf("booking %s not found", id), nil)
}

func NewValidationError(msg string) error {
	return newError(CodeValidationRejected, msg, nil)
}

func NewStateError(err error) error {
	return newError(CodeStateError, err.Error(), err)
}

func NewConflictError(id string, err error) error {
	return newError(CodeConflict, fmt.Sprintf("booking %s was changed by another request", id), err)
}

func NewPaymentFailedError(msg string, err error) error {
	return newError(CodePaymentFailed, msg, err)
}

// CodeOf returns the code of a domain error, or "" for any other error.
func CodeOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
