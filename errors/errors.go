package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status code the backend answered with, 0 if none.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// UserMessage returns the message shown to the user.
func (e *AppError) UserMessage() string { return e.Message }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithStatus records the backend status code and returns the receiver.
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// ConnectionFailed creates a new AppError for a backend that could not be reached.
func ConnectionFailed(cause error) *AppError {
	return New(ErrCodeConnectionFailed, "Unable to reach Unitrack. Check your connection and try again.", 0).
		WithCause(cause)
}

// Timeout creates a new AppError for a request that ran out of time.
func Timeout(cause error) *AppError {
	return New(ErrCodeTimeout, "The request took too long. Please try again.", 0).WithCause(cause)
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// InvalidFormat creates a new AppError for an invalid field format.
func InvalidFormat(field, expectedFormat string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format for %s. Expected: %s", field, expectedFormat),
		Details: map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// Unauthorized creates a new AppError for a request without usable credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Please log in to continue."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidCredentials creates a new AppError for a rejected login.
func InvalidCredentials(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "Invalid email or password.",
		HTTPStatus: http.StatusUnauthorized, Cause: cause,
	}
}

// TokenExpired creates a new AppError for a session that can no longer be refreshed.
func TokenExpired(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized, Cause: cause,
	}
}

// SubscriptionRequired creates a new AppError for a premium-only feature.
func SubscriptionRequired(feature string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSubscriptionRequired, Message: fmt.Sprintf("%s requires a Pro subscription.", feature),
		HTTPStatus: http.StatusForbidden, Cause: cause,
		Details: map[string]any{"feature": feature},
	}
}

// UnexpectedResponse creates a new AppError for a reply that could not be decoded.
func UnexpectedResponse(cause error) *AppError {
	return New(ErrCodeUnexpectedResponse, "Received an unexpected response from Unitrack.", 0).WithCause(cause)
}

// Storage creates a new AppError for a credential store failure.
func Storage(cause error) *AppError {
	return &AppError{
		Code: ErrCodeStorage, Message: "Could not save your session on this device.",
		Cause: cause,
	}
}
// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// UserMessage returns the single line a screen shows for err. The outermost
// error that knows how to describe itself wins.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if stderrors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	if stderrors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "The request took too long. Please try again."
	}
	return err.Error()
}
