package count

// Request bundles everything one counting operation needs: an immutable
// text snapshot, the document's line-ending convention, the caret or
// selection, the requested metrics, and whether line terminators count
// toward character totals. The snapshot is read-only and owned by the
// caller; the engine never mutates or retains it past the operation.
type Request struct {
	text             string
	lineEnding       LineEnding
	selection        Selection
	requiredInfo     Metric
	countsLineEnding bool
}

// NewRequest creates a request over the given snapshot with every metric
// requested and line terminators counted, the documented defaults. Narrow
// with WithRequiredInfo and WithCountsLineEnding.
func NewRequest(text string, lineEnding LineEnding, selection Selection) Request {
	return Request{
		text:             text,
		lineEnding:       lineEnding,
		selection:        selection,
		requiredInfo:     All,
		countsLineEnding: true,
	}
}

// Text returns the text snapshot.
func (r Request) Text() string { return r.text }

// LineEnding returns the document's line-ending convention.
func (r Request) LineEnding() LineEnding { return r.lineEnding }

// Selection returns the caret or selection range.
func (r Request) Selection() Selection { return r.selection }

// RequiredInfo returns the requested metric set.
func (r Request) RequiredInfo() Metric { return r.requiredInfo }

// CountsLineEnding reports whether line terminators count as characters.
func (r Request) CountsLineEnding() bool { return r.countsLineEnding }

// WithRequiredInfo returns a copy requesting only the given metrics.
func (r Request) WithRequiredInfo(info Metric) Request {
	r.requiredInfo = info
	return r
}

// WithCountsLineEnding returns a copy with the terminator-counting policy.
func (r Request) WithCountsLineEnding(counts bool) Request {
	r.countsLineEnding = counts
	return r
}
