package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/helixml/textstat/domain/count"
)

// Sentinel errors for matching with errors.Is.
var (
	// ErrAuthentication indicates an authentication failure.
	ErrAuthentication = errors.New("authentication failed")

	// ErrServer indicates a server-side failure.
	ErrServer = errors.New("server error")
)

// APIError represents an error with an associated HTTP status code.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates a new APIError with the given status code and message.
// The cause may be nil.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the error message without the status prefix.
func (e *APIError) Message() string { return e.message }

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error { return e.cause }

// AuthenticationError represents a failed authentication attempt.
type AuthenticationError struct {
	message string
}

// NewAuthenticationError creates a new AuthenticationError.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{message: message}
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.message)
}

// Unwrap makes the error match ErrAuthentication with errors.Is.
func (e *AuthenticationError) Unwrap() error { return ErrAuthentication }

// ServerError represents a server-side failure with an HTTP status code.
type ServerError struct {
	statusCode int
	message    string
}

// NewServerError creates a new ServerError.
func NewServerError(statusCode int, message string) *ServerError {
	return &ServerError{statusCode: statusCode, message: message}
}

// StatusCode returns the HTTP status code.
func (e *ServerError) StatusCode() int { return e.statusCode }

// Message returns the error message without the status prefix.
func (e *ServerError) Message() string { return e.message }

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.statusCode, e.message)
}

// Unwrap makes the error match ErrServer with errors.Is.
func (e *ServerError) Unwrap() error { return ErrServer }

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError writes err as a JSON error response, mapping known error types
// to HTTP status codes. Unknown errors become 500 Internal Server Error.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var apiErr *APIError
	var srvErr *ServerError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code()
		message = apiErr.Message()
	case errors.As(err, &srvErr):
		status = srvErr.StatusCode()
		message = srvErr.Message()
	case errors.Is(err, ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, count.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, count.ErrInvalidRange):
		status = http.StatusUnprocessableEntity
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}

	WriteJSON(w, status, map[string]string{"error": message})
}
