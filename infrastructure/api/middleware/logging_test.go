package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func loggedRequest(t *testing.T, buf *bytes.Buffer, path string) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
}

func TestLogging_EmitsRequestLine(t *testing.T) {
	var buf bytes.Buffer
	loggedRequest(t, &buf, "/api/v1/operations")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}

	if line["msg"] != "request completed" {
		t.Errorf("msg = %v, want 'request completed'", line["msg"])
	}
	if line["method"] != "GET" {
		t.Errorf("method = %v, want GET", line["method"])
	}
	if line["path"] != "/api/v1/operations" {
		t.Errorf("path = %v, want /api/v1/operations", line["path"])
	}
	if line["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, want %d", line["status"], http.StatusOK)
	}
	if _, ok := line["duration_ms"]; !ok {
		t.Error("expected duration_ms field")
	}
}

func TestLogging_HealthChecksAtDebug(t *testing.T) {
	for _, path := range []string{"/health", "/healthz", "/healthz/"} {
		var buf bytes.Buffer
		loggedRequest(t, &buf, path)

		if buf.Len() != 0 {
			t.Errorf("%s should be logged at debug, got: %s", path, buf.String())
		}
	}
}
