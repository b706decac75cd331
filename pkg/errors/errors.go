// Package errors provides standardized error definitions for the Artist Atlas API.
package errors

import (
	"fmt"
	"net/http"
)

// Error represents a structured application error.
type Error struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	HTTPStatus int         `json:"-"`
	Details    interface{} `json:"details,omitempty"`
	Err        error       `json:"-"` // Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error carrying additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithError returns a copy of the error wrapping another error.
func (e *Error) WithError(err error) *Error {
	clone := *e
	clone.Err = err
	return &clone
}

// WithMessage returns a copy of the error with a different message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

// New creates a new Error.
func New(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error with error code and message.
func Wrap(err error, code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Common error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"

	// Authentication errors
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeOTPNotFound        = "OTP_NOT_FOUND"
	ErrCodeOTPExpired         = "OTP_EXPIRED"
	ErrCodeOTPInvalid         = "OTP_INVALID"
	ErrCodeOTPTooFrequent     = "OTP_TOO_FREQUENT"

	// User errors
	ErrCodeUserNotFound = "USER_NOT_FOUND"
	ErrCodeEmailTaken   = "EMAIL_TAKEN"

	// Resource errors
	ErrCodeArtistNotFound = "ARTIST_NOT_FOUND"

	// Validation errors
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidInput     = "INVALID_INPUT"

	// Service errors
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeMailError     = "MAIL_ERROR"
)

// Predefined errors
var (
	ErrInternal        = New(ErrCodeInternal, "Internal server error", http.StatusInternalServerError)
	ErrInvalidRequest  = New(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest)
	ErrNotFound        = New(ErrCodeNotFound, "Resource not found", http.StatusNotFound)
	ErrForbidden       = New(ErrCodeForbidden, "Access forbidden", http.StatusForbidden)
	ErrUnauthorized    = New(ErrCodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests)
)

var (
	// Authentication errors. OTP failures are 400 rather than 401: an expired
	// or missing code is a recoverable state, the client retries login.
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token has expired", http.StatusUnauthorized)
	ErrTokenInvalid       = New(ErrCodeTokenInvalid, "Invalid token", http.StatusUnauthorized)
	ErrOTPNotFound        = New(ErrCodeOTPNotFound, "OTP not found. Please login again.", http.StatusBadRequest)
	ErrOTPExpired         = New(ErrCodeOTPExpired, "OTP expired. Please login again.", http.StatusBadRequest)
	ErrOTPInvalid         = New(ErrCodeOTPInvalid, "Invalid OTP", http.StatusBadRequest)
	ErrOTPTooFrequent     = New(ErrCodeOTPTooFrequent, "OTP requested too frequently, please wait", http.StatusTooManyRequests)
)

var (
	// User errors
	ErrUserNotFound = New(ErrCodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailTaken   = New(ErrCodeEmailTaken, "User with this email already exists", http.StatusConflict)
)

var (
	// Resource errors
	ErrArtistNotFound = New(ErrCodeArtistNotFound, "Artist not found", http.StatusNotFound)
)

var (
	// Validation errors
	ErrValidationFailed = New(ErrCodeValidationFailed, "Validation failed", http.StatusBadRequest)
	ErrInvalidInput     = New(ErrCodeInvalidInput, "Invalid input", http.StatusBadRequest)
)

var (
	// Service errors. Messages stay generic: connectivity details are logged,
	// never returned to the client.
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error", http.StatusInternalServerError)
	ErrMailError     = New(ErrCodeMailError, "Failed to send email", http.StatusInternalServerError)
)

// IsError checks if an error is a specific application error.
func IsError(err error, target *Error) bool {
	if err == nil {
		return false
	}
	appErr, ok := err.(*Error)
	if !ok {
		return false
	}
	return appErr.Code == target.Code
}

// GetHTTPStatus returns the HTTP status code for an error.
// If the error is not an *Error, returns 500.
func GetHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	appErr, ok := err.(*Error)
	if !ok {
		return http.StatusInternalServerError
	}
	return appErr.HTTPStatus
}

// GetCode returns the error code for an error.
// If the error is not an *Error, returns INTERNAL_ERROR.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := err.(*Error)
	if !ok {
		return ErrCodeInternal
	}
	return appErr.Code
}
