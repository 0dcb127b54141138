package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors classifying every failure the API client can surface.
var (
	// ErrNetwork covers transport-level failures: no connectivity,
	// timeouts, DNS errors. The request may never have reached the API.
	ErrNetwork = errors.New("network error")

	// ErrAuth is returned for 401 responses. Callers decide whether to
	// redirect to login; nothing retries automatically.
	ErrAuth = errors.New("authentication required")

	// ErrValidation is returned for non-401 4xx responses, optionally
	// carrying field-level messages from the server.
	ErrValidation = errors.New("validation failed")

	// ErrServer is returned for 5xx responses.
	ErrServer = errors.New("server error")

	// ErrNotFound marks an absent key in the local session store. It is
	// never produced by the API client.
	ErrNotFound = errors.New("not found")
)

// APIError is a classified error from the Acteezer API with optional
// field-level detail.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"-"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Network wraps a transport-level failure.
func Network(err error) *APIError {
	return &APIError{
		Code:    "NETWORK_ERROR",
		Message: "request failed before a response was received",
		Err:     fmt.Errorf("%w: %w", ErrNetwork, err),
	}
}

// Auth creates a 401 error.
func Auth(message string) *APIError {
	return &APIError{
		Code:    "AUTH_ERROR",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrAuth,
	}
}

// Validation creates a 4xx error carrying field-level messages.
func Validation(status int, message string, fields map[string]string) *APIError {
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  status,
		Fields:  fields,
		Err:     ErrValidation,
	}
}

// Server creates a 5xx error.
func Server(status int, message string) *APIError {
	return &APIError{
		Code:    "SERVER_ERROR",
		Message: message,
		Status:  status,
		Err:     ErrServer,
	}
}

// NotFound creates a session-store absence error for the given key.
func NotFound(key string) *APIError {
	return &APIError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("no value stored under %q", key),
		Err:     ErrNotFound,
	}
}

// Wrap adds context to an error without changing its classification.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Status returns the HTTP status carried by the error, or 0 for errors
// that never reached the API (network failures, local store errors).
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the server-provided message carried by the error, or
// "" when none was attached.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// FieldErrors returns the field-level messages carried by a validation
// error, or nil for every other error.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && errors.Is(err, ErrValidation) {
		return apiErr.Fields
	}
	return nil
}
