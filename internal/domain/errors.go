package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrDataUnavailable = errors.New("data unavailable")
)

// DataUnavailableError indicates the underlying store failed while serving a
// read. It is always fatal to the operation that hit it: claims resolution
// never degrades to a partial result, and retry policy belongs to the
// data-access layer, not to the callers of this package.
type DataUnavailableError struct {
	Op  string // logical operation, e.g. "fetch product claims"
	Err error  // underlying driver error
}

// Error implements the error interface
func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: data unavailable: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying driver error
func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is() to match against ErrDataUnavailable
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// StatusCode implements the HTTPError interface
func (e *DataUnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}
