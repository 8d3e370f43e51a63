package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTerminalHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	ts := time.Date(2026, 8, 27, 14, 22, 3, 456000000, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "operation settled", 0)
	r.AddAttrs(
		slog.String("operation_id", "01JF8PZV3Q"),
		slog.String("state", "completed"),
	)

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "14:22:03.456") {
		t.Errorf("expected timestamp, got: %s", output)
	}
	if !strings.Contains(output, "INF") {
		t.Errorf("expected INF badge, got: %s", output)
	}
	if !strings.Contains(output, "operation settled") {
		t.Errorf("expected message, got: %s", output)
	}
	if !strings.Contains(output, "operation_id=") {
		t.Errorf("expected operation_id attr, got: %s", output)
	}
	if !strings.Contains(output, "01JF8PZV3Q") {
		t.Errorf("expected operation id value, got: %s", output)
	}
	if !strings.Contains(output, "state=") {
		t.Errorf("expected state attr, got: %s", output)
	}
}

func TestTerminalHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		badge string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.badge, func(t *testing.T) {
			var buf bytes.Buffer
			h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

			r := slog.NewRecord(time.Now(), tt.level, "sweep finished", 0)
			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error: %v", err)
			}

			if !strings.Contains(buf.String(), tt.badge) {
				t.Errorf("expected %s in output, got: %s", tt.badge, buf.String())
			}
		})
	}
}

func TestTerminalHandler_ColourCodes(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Now(), slog.LevelError, "history archive failed", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, ansiRed) {
		t.Error("expected red colour for ERROR level")
	}
	if !strings.Contains(output, ansiReset) {
		t.Error("expected reset code")
	}
	if !strings.Contains(output, ansiBold) {
		t.Error("expected bold for message")
	}
}

func TestTerminalHandler_Enabled(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("DEBUG should be disabled at WARN level")
	}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("INFO should be disabled at WARN level")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("WARN should be enabled at WARN level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("ERROR should be enabled at WARN level")
	}
}

func TestTerminalHandler_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(h)

	logger.Debug("stage announced")
	logger.Info("stage finished")
	logger.Warn("retention sweep slow")
	logger.Error("database unavailable")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
}

func TestTerminalHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h2 := h.WithAttrs([]slog.Attr{slog.String("operation_id", "01JF8Q0A7B")})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "stage finished", 0)
	r.AddAttrs(slog.Int("stages_done", 3))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "operation_id=") {
		t.Errorf("expected operation_id attr, got: %s", output)
	}
	if !strings.Contains(output, "01JF8Q0A7B") {
		t.Errorf("expected operation id value, got: %s", output)
	}
	if !strings.Contains(output, "stages_done=") {
		t.Errorf("expected stages_done attr, got: %s", output)
	}
}

func TestTerminalHandler_WithAttrsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	_ = h.WithAttrs([]slog.Attr{slog.String("operation_id", "01JF8Q0A7B")})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "sweep finished", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if strings.Contains(buf.String(), "operation_id=") {
		t.Errorf("parent handler should not carry the derived attrs, got: %s", buf.String())
	}
}

func TestTerminalHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h2 := h.WithGroup("selection")

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "request accepted", 0)
	r.AddAttrs(slog.Int("start", 4))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), "selection.start=") {
		t.Errorf("expected grouped attr selection.start, got: %s", buf.String())
	}
}

func TestTerminalHandler_QuotesStringsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Now(), slog.LevelWarn, "request rejected", 0)
	r.AddAttrs(slog.String("error", "invalid range: end offset 99"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), `"invalid range: end offset 99"`) {
		t.Errorf("expected quoted string value, got: %s", buf.String())
	}
}

func TestTerminalHandler_DefaultLevel(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, nil)

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default level should be INFO")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("DEBUG should be disabled at default INFO level")
	}
}

func TestTerminalHandler_EmptyGroup(t *testing.T) {
	h := newTerminalHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	if h.WithGroup("") != slog.Handler(h) {
		t.Error("WithGroup with empty string should return same handler")
	}
}

func TestTerminalHandler_GroupAttr(t *testing.T) {
	var buf bytes.Buffer
	h := newTerminalHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "count finished", 0)
	r.AddAttrs(slog.Group("result",
		slog.Int("words", 12),
		slog.Int("lines", 3),
	))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "result.words=") {
		t.Errorf("expected grouped result.words, got: %s", output)
	}
	if !strings.Contains(output, "result.lines=") {
		t.Errorf("expected grouped result.lines, got: %s", output)
	}
}
