package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/helixml/textstat/domain/count"
	"github.com/helixml/textstat/infrastructure/segment"
	"github.com/helixml/textstat/infrastructure/tracking"
)

// Counter runs the staged computation for a single request. Stages execute
// in a fixed order, each gated by its metric flag, with a cancellation
// check before every stage and periodic checks inside the long scans.
type Counter struct {
	request   count.Request
	startByte int
	endByte   int
	tracker   *tracking.Tracker
}

// NewCounter prepares a counter for the request. The selection offsets are
// resolved to byte positions up front; an offset outside the text yields
// ErrInvalidRange and no counter.
func NewCounter(request count.Request) (*Counter, error) {
	selection := request.Selection()
	if selection.Start() < 0 || selection.End() < selection.Start() {
		return nil, fmt.Errorf("%w: %s", count.ErrInvalidRange, selection)
	}

	startByte, err := segment.ByteOffset(request.Text(), selection.Start())
	if err != nil {
		return nil, fmt.Errorf("%w: start offset %d", count.ErrInvalidRange, selection.Start())
	}
	endByte, err := segment.ByteOffset(request.Text(), selection.End())
	if err != nil {
		return nil, fmt.Errorf("%w: end offset %d", count.ErrInvalidRange, selection.End())
	}

	return &Counter{
		request:   request,
		startByte: startByte,
		endByte:   endByte,
	}, nil
}

// WithTracker attaches a progress tracker notified as stages run.
func (c *Counter) WithTracker(tracker *tracking.Tracker) *Counter {
	c.tracker = tracker
	return c
}

type counterStage struct {
	metric count.Metric
	run    func(context.Context, count.Result) (count.Result, error)
}

func (c *Counter) stages() []counterStage {
	return []counterStage{
		{count.Length, c.measureLength},
		{count.Characters, c.measureCharacters},
		{count.Lines, c.measureLines},
		{count.Words, c.measureWords},
		{count.Location, c.measureLocation},
		{count.Line, c.measureLine},
		{count.Column, c.measureColumn},
		{count.Unicode, c.identifyScalar},
	}
}

// Run executes the requested stages and returns the populated result.
// Cancellation wins over the empty-text short-circuit: a context already
// cancelled on entry returns the context error even when no stage would
// run. Empty text otherwise short-circuits with every field at its
// default. On cancellation the returned result holds the values of every
// stage that finished before the checkpoint; the rest keep defaults.
func (c *Counter) Run(ctx context.Context) (count.Result, error) {
	result := count.NewResult()
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if c.request.Text() == "" {
		return result, nil
	}

	required := c.request.RequiredInfo()
	for _, stage := range c.stages() {
		if !required.Has(stage.metric) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		c.announce(ctx, stage.metric)
		next, err := stage.run(ctx, result)
		if err != nil {
			return result, err
		}
		result = next
		c.finish(ctx, stage.metric)
	}
	return result, nil
}

func (c *Counter) hasSelection() bool { return c.startByte < c.endByte }

func (c *Counter) selectedText() string {
	return c.request.Text()[c.startByte:c.endByte]
}

// measureLength reports UTF-16 code units after normalizing every line
// terminator to the request's convention. Normalization returns the input
// unchanged when the text already conforms, so a conforming snapshot is
// measured directly.
func (c *Counter) measureLength(_ context.Context, result count.Result) (count.Result, error) {
	ending := c.request.LineEnding()
	length := segment.UTF16Length(ending.Normalize(c.request.Text()))
	selected := 0
	if c.hasSelection() {
		selected = segment.UTF16Length(ending.Normalize(c.selectedText()))
	}
	return result.WithLength(length, selected), nil
}

func (c *Counter) measureCharacters(ctx context.Context, result count.Result) (count.Result, error) {
	text := c.request.Text()
	selectedText := c.selectedText()
	if !c.request.CountsLineEnding() {
		text = count.StripTerminators(text)
		selectedText = count.StripTerminators(selectedText)
	}

	characters, err := segment.Graphemes(ctx, text)
	if err != nil {
		return result, err
	}
	selected := 0
	if c.hasSelection() {
		selected, err = segment.Graphemes(ctx, selectedText)
		if err != nil {
			return result, err
		}
	}
	return result.WithCharacters(characters, selected), nil
}

func (c *Counter) measureLines(ctx context.Context, result count.Result) (count.Result, error) {
	lines, err := segment.Lines(ctx, c.request.Text())
	if err != nil {
		return result, err
	}
	selected := 0
	if c.hasSelection() {
		selected, err = segment.Lines(ctx, c.selectedText())
		if err != nil {
			return result, err
		}
	}
	return result.WithLines(lines, selected), nil
}

func (c *Counter) measureWords(ctx context.Context, result count.Result) (count.Result, error) {
	words, err := segment.Words(ctx, c.request.Text())
	if err != nil {
		return result, err
	}
	selected := 0
	if c.hasSelection() {
		selected, err = segment.Words(ctx, c.selectedText())
		if err != nil {
			return result, err
		}
	}
	return result.WithWords(words, selected), nil
}

// measureLocation counts grapheme clusters in the prefix before the
// selection start, honoring the terminator-counting policy.
func (c *Counter) measureLocation(ctx context.Context, result count.Result) (count.Result, error) {
	prefix := c.request.Text()[:c.startByte]
	if !c.request.CountsLineEnding() {
		prefix = count.StripTerminators(prefix)
	}
	location, err := segment.Graphemes(ctx, prefix)
	if err != nil {
		return result, err
	}
	return result.WithLocation(location), nil
}

func (c *Counter) measureLine(_ context.Context, result count.Result) (count.Result, error) {
	return result.WithLine(segment.LineNumber(c.request.Text(), c.startByte)), nil
}

// measureColumn counts grapheme clusters between the start of the line
// containing the selection start and the selection start itself.
func (c *Counter) measureColumn(ctx context.Context, result count.Result) (count.Result, error) {
	text := c.request.Text()
	lineStart := segment.LineStart(text, c.startByte)
	column, err := segment.Graphemes(ctx, text[lineStart:c.startByte])
	if err != nil {
		return result, err
	}
	return result.WithColumn(column), nil
}

// identifyScalar records the code point when the selection holds exactly
// one Unicode scalar value. Multi-scalar selections stay unset even when
// they form a single grapheme cluster.
func (c *Counter) identifyScalar(_ context.Context, result count.Result) (count.Result, error) {
	selected := c.selectedText()
	if selected == "" {
		return result, nil
	}
	r, size := utf8.DecodeRuneInString(selected)
	if size != len(selected) {
		return result, nil
	}
	return result.WithUnicode(count.NewCodePoint(r)), nil
}

func (c *Counter) announce(ctx context.Context, metric count.Metric) {
	if c.tracker != nil {
		c.tracker.Running(ctx, metric.String())
	}
}

func (c *Counter) finish(ctx context.Context, metric count.Metric) {
	if c.tracker != nil {
		c.tracker.StageDone(ctx, metric.String())
	}
}
