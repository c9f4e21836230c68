package errors

import "net/http"

// AppError is a custom error type that carries an HTTP status code.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Common errors
var (
	ErrInvalidRequest   = NewAppError(http.StatusBadRequest, "Invalid request parameters")
	ErrNotAuthenticated = NewAppError(http.StatusUnauthorized, "Authentication required")
	ErrForbidden        = NewAppError(http.StatusForbidden, "Access denied")
	ErrNotFound         = NewAppError(http.StatusNotFound, "Resource not found")
	ErrInternalServer   = NewAppError(http.StatusInternalServerError, "Internal server error")
	ErrRateLimit        = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded")
)

// Validation signals malformed input, e.g. an empty message body.
func Validation(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg)
}

func NotAuthenticated(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg)
}

// Conflict signals a state collision, e.g. a duplicate connection request.
func Conflict(msg string) *AppError {
	return NewAppError(http.StatusConflict, msg)
}

// Transient signals a store/network failure that the caller may retry.
func Transient(msg string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, msg)
}

// IsTransient reports whether err is a retryable AppError.
func IsTransient(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == http.StatusServiceUnavailable
}
