package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/helixml/textstat/application/service"
	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/internal/textio"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func countCmd() *cobra.Command {
	var (
		metricNames    string
		lineEndingName string
		selectionSpec  string
		noCountEndings bool
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "count [path...]",
		Short: "Count text statistics for files or stdin",
		Long: `Count text statistics for each path, or for standard input when no path
is given. The path "-" also reads standard input.

Without --metrics the whole-text statistics are reported: length (UTF-16
code units), characters (grapheme clusters), lines, and words. Setting
--selection additionally reports the selection-scoped counts and the caret
metrics (location, line, column, unicode). Files are decoded as UTF-8
honoring UTF-8 and UTF-16 byte order marks; the line-ending convention is
detected per input unless --line-ending forces one.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseCountSettings(metricNames, lineEndingName, selectionSpec, noCountEndings, jsonOutput)
			if err != nil {
				return err
			}
			return runCount(cmd, args, settings)
		},
	}

	cmd.Flags().StringVar(&metricNames, "metrics", "", "Comma-separated metrics to compute (length, characters, lines, words, location, line, column, unicode, all)")
	cmd.Flags().StringVar(&lineEndingName, "line-ending", "", "Line-ending convention: LF, CR, CRLF, NEL, LS, PS (default: detected per input)")
	cmd.Flags().StringVar(&selectionSpec, "selection", "", "Selection as start:end or a single caret offset, in UTF-16 code units")
	cmd.Flags().BoolVar(&noCountEndings, "no-count-line-endings", false, "Exclude line terminators from character counts")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit one JSON object per input")

	return cmd
}

// countSettings carries the parsed command flags. An empty lineEnding means
// detect per input.
type countSettings struct {
	metrics      count.Metric
	lineEnding   count.LineEnding
	selection    count.Selection
	countEndings bool
	jsonOutput   bool
}

func parseCountSettings(metricNames, lineEndingName, selectionSpec string, noCountEndings, jsonOutput bool) (countSettings, error) {
	selection, err := parseSelection(selectionSpec)
	if err != nil {
		return countSettings{}, err
	}

	// Caret metrics are noise without a selection, so the default set
	// narrows to the whole-text statistics.
	metrics := count.Length | count.Characters | count.Lines | count.Words
	if selectionSpec != "" {
		metrics = count.All
	}
	if metricNames != "" {
		metrics, err = count.ParseMetrics(strings.Split(metricNames, ","))
		if err != nil {
			return countSettings{}, err
		}
	}

	var lineEnding count.LineEnding
	if lineEndingName != "" {
		lineEnding, err = count.ParseLineEnding(lineEndingName)
		if err != nil {
			return countSettings{}, err
		}
	}

	return countSettings{
		metrics:      metrics,
		lineEnding:   lineEnding,
		selection:    selection,
		countEndings: !noCountEndings,
		jsonOutput:   jsonOutput,
	}, nil
}

// parseSelection parses a selection as "start:end" or a single caret offset.
func parseSelection(spec string) (count.Selection, error) {
	if spec == "" {
		return count.NewCaret(0), nil
	}

	startStr, endStr, ranged := strings.Cut(spec, ":")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return count.Selection{}, fmt.Errorf("invalid selection %q: %w", spec, err)
	}
	if !ranged {
		return count.NewCaret(start), nil
	}

	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return count.Selection{}, fmt.Errorf("invalid selection %q: %w", spec, err)
	}
	return count.NewSelection(start, end), nil
}

func runCount(cmd *cobra.Command, paths []string, settings countSettings) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs := paths
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	rows := make([]countRow, len(inputs))
	stdin := cmd.InOrStdin()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range inputs {
		g.Go(func() error {
			rows[i] = countInput(gctx, path, settings, stdin)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	ok := make([]countRow, 0, len(rows))
	for _, row := range rows {
		if row.err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "textstat: %s: %v\n", row.name, row.err)
			continue
		}
		ok = append(ok, row)
	}

	out := cmd.OutOrStdout()
	if settings.jsonOutput {
		enc := json.NewEncoder(out)
		for _, row := range ok {
			if err := enc.Encode(newCountOutput(row)); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
		}
	} else if len(ok) > 0 {
		renderTable(out, ok, tableColumns(settings.metrics, !settings.selection.IsEmpty()))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	return nil
}

// countRow is one input's outcome: its statistics or the error that
// prevented them.
type countRow struct {
	name       string
	lineEnding count.LineEnding
	result     count.Result
	err        error
}

// countInput reads one input and runs the counting stages over it. Errors
// land on the returned row so one unreadable path does not stop the rest.
func countInput(ctx context.Context, path string, settings countSettings, stdin io.Reader) countRow {
	row := countRow{name: path}

	text, err := readInput(path, stdin)
	if err != nil {
		row.err = err
		return row
	}

	lineEnding := settings.lineEnding
	if lineEnding == "" {
		lineEnding = count.DetectLineEnding(text)
	}

	request := count.NewRequest(text, lineEnding, settings.selection).
		WithRequiredInfo(settings.metrics).
		WithCountsLineEnding(settings.countEndings)

	counter, err := service.NewCounter(request)
	if err != nil {
		row.err = err
		return row
	}

	result, err := counter.Run(ctx)
	if err != nil {
		row.err = err
		return row
	}

	row.lineEnding = lineEnding
	row.result = result
	return row
}

// readInput loads a path, or standard input when the path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return textio.Decode(data)
	}
	return textio.ReadFile(path)
}

// tableColumn is one metric column of the table output. total is nil for
// caret metrics, which report positions and have no meaningful sum.
type tableColumn struct {
	header string
	value  func(count.Result) string
	total  func(count.Result) int
}

// tableColumns builds the columns for the requested metrics in stage order.
// Counting metrics gain a selected_* column when a selection is present.
func tableColumns(metrics count.Metric, hasSelection bool) []tableColumn {
	numeric := func(header string, value func(count.Result) int) tableColumn {
		return tableColumn{
			header: header,
			value:  func(r count.Result) string { return strconv.Itoa(value(r)) },
			total:  value,
		}
	}
	caret := func(header string, value func(count.Result) int) tableColumn {
		return tableColumn{
			header: header,
			value:  func(r count.Result) string { return strconv.Itoa(value(r)) },
		}
	}

	var cols []tableColumn
	if metrics.Has(count.Length) {
		cols = append(cols, numeric("length", count.Result.Length))
		if hasSelection {
			cols = append(cols, numeric("selected_length", count.Result.SelectedLength))
		}
	}
	if metrics.Has(count.Characters) {
		cols = append(cols, numeric("characters", count.Result.Characters))
		if hasSelection {
			cols = append(cols, numeric("selected_characters", count.Result.SelectedCharacters))
		}
	}
	if metrics.Has(count.Lines) {
		cols = append(cols, numeric("lines", count.Result.Lines))
		if hasSelection {
			cols = append(cols, numeric("selected_lines", count.Result.SelectedLines))
		}
	}
	if metrics.Has(count.Words) {
		cols = append(cols, numeric("words", count.Result.Words))
		if hasSelection {
			cols = append(cols, numeric("selected_words", count.Result.SelectedWords))
		}
	}
	if metrics.Has(count.Location) {
		cols = append(cols, caret("location", count.Result.Location))
	}
	if metrics.Has(count.Line) {
		cols = append(cols, caret("line", count.Result.Line))
	}
	if metrics.Has(count.Column) {
		cols = append(cols, caret("column", count.Result.Column))
	}
	if metrics.Has(count.Unicode) {
		cols = append(cols, tableColumn{
			header: "unicode",
			value:  func(r count.Result) string { return r.Unicode().String() },
		})
	}
	return cols
}

// renderTable writes one row per input plus a totals row when more than one
// input was counted. Numeric columns are right-aligned; the name column is
// padded by display width so wide characters line up.
func renderTable(w io.Writer, rows []countRow, cols []tableColumn) {
	names := make([]string, 0, len(rows)+1)
	cells := make([][]string, 0, len(rows)+1)
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, col := range cols {
			line[i] = col.value(row.result)
		}
		names = append(names, row.name)
		cells = append(cells, line)
	}

	if len(rows) > 1 {
		line := make([]string, len(cols))
		for i, col := range cols {
			if col.total == nil {
				continue
			}
			sum := 0
			for _, row := range rows {
				sum += col.total(row.result)
			}
			line[i] = strconv.Itoa(sum)
		}
		names = append(names, "total")
		cells = append(cells, line)
	}

	nameWidth := runewidth.StringWidth("file")
	for _, name := range names {
		if w := runewidth.StringWidth(name); w > nameWidth {
			nameWidth = w
		}
	}
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = len(col.header)
	}
	for _, line := range cells {
		for i, cell := range line {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString(padName("file", nameWidth))
	for i, col := range cols {
		fmt.Fprintf(&b, "  %*s", widths[i], col.header)
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for j, line := range cells {
		b.Reset()
		b.WriteString(padName(names[j], nameWidth))
		for i, cell := range line {
			fmt.Fprintf(&b, "  %*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// padName left-aligns a name to the given width, counting terminal cells
// rather than bytes.
func padName(name string, width int) string {
	return name + strings.Repeat(" ", width-runewidth.StringWidth(name))
}

// countOutput is the JSON shape of one input's statistics.
type countOutput struct {
	Path               string `json:"path"`
	LineEnding         string `json:"line_ending"`
	Length             int    `json:"length"`
	Characters         int    `json:"characters"`
	Lines              int    `json:"lines"`
	Words              int    `json:"words"`
	SelectedLength     int    `json:"selected_length"`
	SelectedCharacters int    `json:"selected_characters"`
	SelectedLines      int    `json:"selected_lines"`
	SelectedWords      int    `json:"selected_words"`
	Location           int    `json:"location"`
	Line               int    `json:"line"`
	Column             int    `json:"column"`
	Unicode            string `json:"unicode,omitempty"`
}

func newCountOutput(row countRow) countOutput {
	result := row.result
	return countOutput{
		Path:               row.name,
		LineEnding:         row.lineEnding.String(),
		Length:             result.Length(),
		Characters:         result.Characters(),
		Lines:              result.Lines(),
		Words:              result.Words(),
		SelectedLength:     result.SelectedLength(),
		SelectedCharacters: result.SelectedCharacters(),
		SelectedLines:      result.SelectedLines(),
		SelectedWords:      result.SelectedWords(),
		Location:           result.Location(),
		Line:               result.Line(),
		Column:             result.Column(),
		Unicode:            result.Unicode().String(),
	}
}
