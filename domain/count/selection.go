package count

import "fmt"

// Selection is a half-open [start, end) range of UTF-16 code-unit offsets
// into a text snapshot. Construction performs no validation; the counting
// service checks the range against the snapshot at submission.
type Selection struct {
	start int
	end   int
}

// NewSelection creates a selection over [start, end).
func NewSelection(start, end int) Selection {
	return Selection{start: start, end: end}
}

// NewCaret creates an empty selection at the given offset.
func NewCaret(offset int) Selection {
	return Selection{start: offset, end: offset}
}

// Start returns the inclusive start offset.
func (s Selection) Start() int { return s.start }

// End returns the exclusive end offset.
func (s Selection) End() int { return s.end }

// Length returns the selection width in UTF-16 code units.
func (s Selection) Length() int { return s.end - s.start }

// IsEmpty reports whether the selection is a bare caret.
func (s Selection) IsEmpty() bool { return s.start == s.end }

// String returns the selection in half-open interval notation.
func (s Selection) String() string {
	return fmt.Sprintf("[%d,%d)", s.start, s.end)
}
