// Package errors defines the application error taxonomy shared by the
// delivery and usecase layers.
package errors

import (
	"net/http"

	"pethub/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Pipeline errors: terminate a request before the target operation runs.
	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"Missing or malformed bearer credential",
		"",
	)

	ErrInvalidCredential = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIAL",
		"Bearer credential was rejected or has expired",
		"",
	)

	ErrNotRegistered = NewBaseError(
		http.StatusForbidden,
		"NOT_REGISTERED",
		"No account exists for this identity; registration required",
		"",
	)

	ErrPendingApproval = NewBaseError(
		http.StatusForbidden,
		"PENDING_APPROVAL",
		"Account role is pending approval",
		"",
	)

	ErrRequestRejected = NewBaseError(
		http.StatusForbidden,
		"REQUEST_REJECTED",
		"Account role request was rejected",
		"",
	)

	ErrInsufficientPrivilege = NewBaseError(
		http.StatusForbidden,
		"INSUFFICIENT_PRIVILEGE",
		"Current role does not permit this operation",
		"",
	)

	// Lifecycle validation errors: caller mistakes, never retried.
	ErrAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"ALREADY_REGISTERED",
		"An account already exists for this identity",
		"",
	)

	ErrInvalidRole = NewBaseError(
		http.StatusBadRequest,
		"INVALID_ROLE",
		"Requested role must be vet or admin",
		"",
	)

	ErrAlreadyHasRole = NewBaseError(
		http.StatusConflict,
		"ALREADY_HAS_ROLE",
		"Account already holds the requested role",
		"",
	)

	ErrDuplicatePending = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_PENDING",
		"A role request is already pending for this account",
		"",
	)

	ErrMissingEvidence = NewBaseError(
		http.StatusBadRequest,
		"MISSING_EVIDENCE",
		"Vet role requests require license evidence",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Requested resource was not found",
		"",
	)

	ErrAlreadyProcessed = NewBaseError(
		http.StatusConflict,
		"ALREADY_PROCESSED",
		"Role request has already been decided",
		"",
	)

	// ErrClaimsSyncFailure is logged at the push call site; it never fails
	// the mutating operation that triggered the push.
	ErrClaimsSyncFailure = NewBaseError(
		http.StatusBadGateway,
		"CLAIMS_SYNC_FAILURE",
		"Failed to propagate role state to the identity provider",
		"",
	)

	// ErrRecordStoreUnavailable is the only 5xx in the subsystem and leaks
	// no internal detail.
	ErrRecordStoreUnavailable = NewBaseError(
		http.StatusInternalServerError,
		"RECORD_STORE_UNAVAILABLE",
		"Service temporarily unavailable, please try again",
		"",
	)

	ErrRateLimited = NewBaseError(
		http.StatusTooManyRequests,
		"RATE_LIMITED",
		"Too many requests, please retry later",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Request validation failed",
		"",
	)
)

// DatabaseExecuteError represents a record store execution error,
// implementing the AppError interface. It surfaces as
// RECORD_STORE_UNAVAILABLE with the underlying cause kept server-side.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a record-store-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "record store execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "RECORD_STORE_UNAVAILABLE"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Service temporarily unavailable, please try again"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
