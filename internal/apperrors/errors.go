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

// ErrConfiguration indicates a data integrity problem that needs operator
// intervention, e.g. a client-billed project with no client linked.
var ErrConfiguration = errors.New("configuration error")

// ErrPeriodClosed indicates a mutation against a financial period whose
// status no longer accepts changes (CLOSED or ARCHIVED).
var ErrPeriodClosed = errors.New("financial period is closed")

// ErrConflict indicates a lost concurrency race (stale version, serialization
// failure). Retryable by re-reading and reapplying the operation.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure, typically from the
// storage layer. Callers must not assume partial effects occurred.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and a
// message safe to surface to callers.
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
	if e.Err != nil {
		return e.Err
	}
	// Map codes without a wrapped cause onto the sentinel taxonomy so
	// errors.Is keeps working for handler dispatch.
	switch e.Code {
	case 404:
		return ErrNotFound
	case 400:
		return ErrValidation
	case 409:
		return ErrConflict
	default:
		return ErrInternal
	}
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
