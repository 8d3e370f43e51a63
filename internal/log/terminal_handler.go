package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

const stampLayout = "15:04:05.000"

// TerminalHandler formats log records as coloured terminal output. It is
// the default handler for interactive sessions; the serve and stdio
// commands switch to JSON when configured for machine consumption.
//
// Output format:
//
//	15:04:05.000 INF operation settled operation_id=01JF8PZV3Q state=completed
type TerminalHandler struct {
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *TerminalHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &TerminalHandler{
		writer: w,
		level:  level,
		mu:     &sync.Mutex{},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats a record as a single coloured line and writes it. Writes
// are serialized through a mutex shared by all derived handlers, so lines
// from concurrent operations never interleave.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var line bytes.Buffer
	line.Grow(256)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line.WriteString(ansiDim)
	line.WriteString(ts.Format(stampLayout))
	line.WriteString(ansiReset)
	line.WriteByte(' ')

	colour, badge := levelBadge(r.Level)
	line.WriteString(colour)
	line.WriteString(badge)
	line.WriteString(ansiReset)
	line.WriteByte(' ')

	line.WriteString(ansiBold)
	line.WriteString(r.Message)
	line.WriteString(ansiReset)

	for _, a := range h.attrs {
		writeAttr(&line, a, h.groups)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&line, a, h.groups)
		return true
	})

	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(line.Bytes())
	return err
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with name.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

// clone copies the handler with freshly allocated attr and group slices.
// The writer and mutex stay shared.
func (h *TerminalHandler) clone() *TerminalHandler {
	attrs := make([]slog.Attr, len(h.attrs))
	copy(attrs, h.attrs)
	groups := make([]string, len(h.groups))
	copy(groups, h.groups)
	return &TerminalHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  attrs,
		groups: groups,
		mu:     h.mu,
	}
}

func levelBadge(level slog.Level) (colour, badge string) {
	switch {
	case level < slog.LevelInfo:
		return ansiCyan, "DBG"
	case level < slog.LevelWarn:
		return ansiGreen, "INF"
	case level < slog.LevelError:
		return ansiYellow, "WRN"
	default:
		return ansiRed, "ERR"
	}
}

func writeAttr(line *bytes.Buffer, a slog.Attr, groups []string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := groups
		if a.Key != "" {
			prefix = make([]string, 0, len(groups)+1)
			prefix = append(prefix, groups...)
			prefix = append(prefix, a.Key)
		}
		for _, member := range a.Value.Group() {
			writeAttr(line, member, prefix)
		}
		return
	}

	line.WriteByte(' ')
	line.WriteString(ansiDim)
	for _, g := range groups {
		line.WriteString(g)
		line.WriteByte('.')
	}
	line.WriteString(a.Key)
	line.WriteByte('=')
	line.WriteString(ansiReset)
	line.WriteString(attrText(a.Value))
}

// attrText renders a value for the terminal, quoting strings that would
// otherwise be ambiguous in key=value output.
func attrText(v slog.Value) string {
	if v.Kind() == slog.KindString {
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"\\") {
			return fmt.Sprintf("%q", s)
		}
		return s
	}
	return v.String()
}
