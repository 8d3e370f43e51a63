package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/helixml/textstat/domain/count"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spec  string
		start int
		end   int
	}{
		{"empty means caret at origin", "", 0, 0},
		{"single offset is a caret", "5", 5, 5},
		{"range", "0:5", 0, 5},
		{"spaces tolerated", " 3 : 9 ", 3, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := parseSelection(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.start, sel.Start())
			assert.Equal(t, tt.end, sel.End())
		})
	}
}

func TestParseSelection_Invalid(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"abc", "1:x", ":", "1:2:3"} {
		_, err := parseSelection(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestTableColumns_SelectionAddsScopedColumns(t *testing.T) {
	t.Parallel()

	headers := func(cols []tableColumn) []string {
		names := make([]string, len(cols))
		for i, col := range cols {
			names[i] = col.header
		}
		return names
	}

	assert.Equal(t,
		[]string{"length", "characters", "lines", "words"},
		headers(tableColumns(count.Length|count.Characters|count.Lines|count.Words, false)))

	assert.Equal(t,
		[]string{
			"length", "selected_length", "characters", "selected_characters",
			"lines", "selected_lines", "words", "selected_words",
			"location", "line", "column", "unicode",
		},
		headers(tableColumns(count.All, true)))
}

func TestRenderTable_AlignsColumnsAndTotals(t *testing.T) {
	t.Parallel()

	rows := []countRow{
		{name: "a.txt", result: count.NewResult().WithLength(19, 0).WithWords(3, 0)},
		{name: "b.txt", result: count.NewResult().WithLength(5, 0).WithWords(1, 0)},
	}

	var buf bytes.Buffer
	renderTable(&buf, rows, tableColumns(count.Length|count.Words, false))

	want := strings.Join([]string{
		"file   length  words",
		"a.txt      19      3",
		"b.txt       5      1",
		"total      24      4",
	}, "\n") + "\n"
	require.Equal(t, want, buf.String())
}

func TestRenderTable_PadsNamesByDisplayWidth(t *testing.T) {
	t.Parallel()

	rows := []countRow{
		{name: "札幌.txt", result: count.NewResult().WithLines(2, 0)},
		{name: "a.txt", result: count.NewResult().WithLines(7, 0)},
	}

	var buf bytes.Buffer
	renderTable(&buf, rows, tableColumns(count.Lines, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines[1:] {
		assert.Equal(t, runewidth.StringWidth(lines[0]), runewidth.StringWidth(line))
	}
}

func TestCountCommand_TableOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	one := filepath.Join(dir, "one.txt")
	two := filepath.Join(dir, "two.txt")
	require.NoError(t, os.WriteFile(one, []byte("Hello world\ngoodbye"), 0o600))
	require.NoError(t, os.WriteFile(two, []byte("alpha beta"), 0o600))

	var out bytes.Buffer
	cmd := countCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{one, two})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "length")
	assert.Contains(t, lines[0], "words")
	assert.Contains(t, lines[1], "19")
	assert.Contains(t, lines[2], "10")
	assert.Contains(t, lines[3], "total")
	assert.Contains(t, lines[3], "29")
}

func TestCountCommand_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sel.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello world\ngoodbye"), 0o600))

	var out bytes.Buffer
	cmd := countCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--json", "--selection", "0:5", path})

	require.NoError(t, cmd.Execute())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, path, payload["path"])
	assert.Equal(t, "LF", payload["line_ending"])
	assert.Equal(t, float64(19), payload["length"])
	assert.Equal(t, float64(3), payload["words"])
	assert.Equal(t, float64(5), payload["selected_length"])
	assert.Equal(t, float64(1), payload["selected_words"])
	assert.Equal(t, float64(0), payload["location"])
	assert.Equal(t, float64(1), payload["line"])
	assert.NotContains(t, payload, "unicode")
}

func TestCountCommand_Stdin(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := countCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader("one two three"))
	cmd.SetArgs([]string{"--json"})

	require.NoError(t, cmd.Execute())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "-", payload["path"])
	assert.Equal(t, float64(13), payload["length"])
	assert.Equal(t, float64(3), payload["words"])
}

func TestCountCommand_MissingFile_ReportsAndFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	readable := filepath.Join(dir, "ok.txt")
	require.NoError(t, os.WriteFile(readable, []byte("alpha beta"), 0o600))
	missing := filepath.Join(dir, "missing.txt")

	var out, errOut bytes.Buffer
	cmd := countCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{readable, missing})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 inputs failed")
	assert.Contains(t, errOut.String(), "missing.txt")
	// The readable input is still reported.
	assert.Contains(t, out.String(), "10")
}

func TestCountCommand_ForcedLineEnding(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\r\nb"), 0o600))

	var out bytes.Buffer
	cmd := countCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--json", "--line-ending", "lf", path})

	require.NoError(t, cmd.Execute())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "LF", payload["line_ending"])
	// CRLF normalizes to one unit under the forced convention.
	assert.Equal(t, float64(3), payload["length"])
	assert.Equal(t, float64(2), payload["lines"])
}
