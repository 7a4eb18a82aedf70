package errors

import "net/http"

// AppError is a custom error type that includes an HTTP status code
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	// ConflictID carries the identifier of an already-existing resource
	// when a create would duplicate it (e.g. a second direct room between
	// the same two users). Empty for every other error kind.
	ConflictID string `json:"conflictId,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common errors
var (
	ErrInvalidRequest = NewAppError(http.StatusBadRequest, "Invalid request parameters")
	ErrUnauthorized   = NewAppError(http.StatusUnauthorized, "Unauthorized access")
	ErrForbidden      = NewAppError(http.StatusForbidden, "Access denied")
	ErrNotFound       = NewAppError(http.StatusNotFound, "Resource not found")
	ErrInternalServer = NewAppError(http.StatusInternalServerError, "Internal server error")
	ErrRateLimit      = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded")
)

// Helper functions to create specific errors
func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg)
}

func Unauthorized(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, msg)
}

// Conflict builds a 409 carrying the id of the conflicting resource so the
// caller can redirect to it instead of treating this as a generic failure.
func Conflict(msg string, conflictID string) *AppError {
	return &AppError{
		Code:       http.StatusConflict,
		Message:    msg,
		ConflictID: conflictID,
	}
}

// IsRetryable reports whether the caller may safely retry the operation.
// Only storage-level failures qualify; mutating chat operations are
// transactional or idempotent, so a retry never double-applies.
func IsRetryable(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == http.StatusInternalServerError
}
