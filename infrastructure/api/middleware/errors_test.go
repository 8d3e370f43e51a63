package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helixml/textstat/domain/count"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(404, "operation not found", nil)

	if err.Code() != 404 {
		t.Errorf("Code() = %v, want 404", err.Code())
	}
	if err.Message() != "operation not found" {
		t.Errorf("Message() = %v, want 'operation not found'", err.Message())
	}

	expected := "api error 404: operation not found"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestAPIError_WithCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewAPIError(500, "history lookup failed", cause)

	expected := "api error 500: history lookup failed: database is locked"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestAuthenticationError(t *testing.T) {
	err := NewAuthenticationError("invalid API key")

	expected := "authentication failed: invalid API key"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	if !errors.Is(err, ErrAuthentication) {
		t.Error("AuthenticationError should match ErrAuthentication with errors.Is")
	}
}

func TestServerError(t *testing.T) {
	err := NewServerError(503, "history is disabled")

	if err.StatusCode() != 503 {
		t.Errorf("StatusCode() = %v, want 503", err.StatusCode())
	}
	if err.Message() != "history is disabled" {
		t.Errorf("Message() = %v, want 'history is disabled'", err.Message())
	}

	expected := "server error 503: history is disabled"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	if !errors.Is(err, ErrServer) {
		t.Error("ServerError should match ErrServer with errors.Is")
	}
}

func TestErrors_CanBeWrapped(t *testing.T) {
	authErr := NewAuthenticationError("key expired")
	wrapped := fmt.Errorf("cancel operation: %w", authErr)

	if !errors.Is(wrapped, ErrAuthentication) {
		t.Error("wrapped AuthenticationError should still match ErrAuthentication")
	}

	var target *AuthenticationError
	if !errors.As(wrapped, &target) {
		t.Error("should be able to extract AuthenticationError with errors.As")
	}
}

func writeErrorResponse(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/operations/01JF8PZV3Q", nil)
	w := httptest.NewRecorder()
	WriteError(w, req, err, nil)
	return w
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("%w: 01JF8PZV3Q", count.ErrNotFound), http.StatusNotFound},
		{"invalid range", fmt.Errorf("%w: end offset 99", count.ErrInvalidRange), http.StatusUnprocessableEntity},
		{"authentication", NewAuthenticationError("invalid API key"), http.StatusUnauthorized},
		{"api error", NewAPIError(http.StatusBadRequest, "invalid request body", nil), http.StatusBadRequest},
		{"server error", NewServerError(http.StatusServiceUnavailable, "history is disabled"), http.StatusServiceUnavailable},
		{"unknown", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := writeErrorResponse(t, tt.err)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestWriteError_BodyCarriesMessage(t *testing.T) {
	w := writeErrorResponse(t, NewAPIError(http.StatusBadRequest, "unknown metric: syllables", nil))

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "unknown metric: syllables" {
		t.Errorf("error = %q, want 'unknown metric: syllables'", body["error"])
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusAccepted, map[string]string{"state": "pending"})

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", w.Code, http.StatusAccepted)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["state"] != "pending" {
		t.Errorf("state = %q, want pending", body["state"])
	}
}
