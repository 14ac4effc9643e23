package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a status precondition failed (already posted, already paid, ...).
var ErrConflict = errors.New("state conflict")

// ErrPeriodClosed indicates a posting or voiding attempt against a closed or locked fiscal period.
var ErrPeriodClosed = errors.New("fiscal period is closed")

// ErrUnbalanced indicates that debits and credits of an entry differ in base currency.
// It wraps ErrValidation so callers matching on validation errors also match it.
var ErrUnbalanced = fmt.Errorf("%w: journal entry is unbalanced", ErrValidation)

// ErrMissingRate indicates that no exchange rate exists for a non-base currency.
var ErrMissingRate = errors.New("missing exchange rate")

// ErrReferentialBlock indicates that a resource is still referenced by ledger history.
var ErrReferentialBlock = errors.New("resource is referenced by journal lines")

// ErrUnauthorized indicates a missing or invalid actor identity.
var ErrUnauthorized = errors.New("unauthorized")

// AppError carries an HTTP-ish code alongside an internal failure.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a code and a human readable message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
