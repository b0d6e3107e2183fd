package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeFetchFailed  ErrCode = "FETCH_FAILED"
	ErrCodeUnauthorized ErrCode = "UNAUTHORIZED"
	ErrCodeRateLimited  ErrCode = "RATE_LIMITED"
	ErrCodeNotFound     ErrCode = "NOT_FOUND"
	ErrCodeInternal     ErrCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
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

// NewFetchFailedError wraps an upstream API failure
func NewFetchFailedError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeFetchFailed,
		Message: message,
		Err:     err,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewRateLimitedError creates a new rate limited error
func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// IsFetchFailed checks if the error is an upstream fetch failure
func IsFetchFailed(err error) bool {
	return hasCode(err, ErrCodeFetchFailed)
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	return hasCode(err, ErrCodeRateLimited)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func hasCode(err error, code ErrCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
