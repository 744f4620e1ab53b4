package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

func NotFound(message string) *AppError { return New(ErrCodeNotFound, message) }

func Forbidden(message string) *AppError { return New(ErrCodeForbidden, message) }

func InvalidOperation(message string) *AppError { return New(ErrCodeInvalidOperation, message) }

func Validation(message string) *AppError { return New(ErrCodeValidation, message) }

func Internal(err error, message string) *AppError { return Wrap(err, ErrCodeInternalError, message) }

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
