package count

import "fmt"

// CodePoint is an optional single Unicode scalar identifier. The zero value
// is undefined; an operation defines it only when the selection covers
// exactly one scalar.
type CodePoint struct {
	scalar  rune
	defined bool
}

// NewCodePoint creates a defined code point.
func NewCodePoint(r rune) CodePoint {
	return CodePoint{scalar: r, defined: true}
}

// Defined reports whether a scalar was identified.
func (c CodePoint) Defined() bool { return c.defined }

// Scalar returns the identified scalar, 0 when undefined.
func (c CodePoint) Scalar() rune { return c.scalar }

// String formats the code point as U+XXXX with at least four hex digits,
// or empty when undefined.
func (c CodePoint) String() string {
	if !c.defined {
		return ""
	}
	return fmt.Sprintf("U+%04X", c.scalar)
}

// Result is the record one counting operation produces. Whole-document and
// selection-scoped values live side by side; every integer defaults to 0
// except line, which defaults to 1. A result handed to the caller after the
// completion signal is final.
type Result struct {
	length             int
	characters         int
	lines              int
	words              int
	selectedLength     int
	selectedCharacters int
	selectedLines      int
	selectedWords      int
	location           int
	line               int
	column             int
	unicode            CodePoint
}

// NewResult creates the all-default record.
func NewResult() Result {
	return Result{line: 1}
}

// Length returns the UTF-16 code-unit length after normalization.
func (r Result) Length() int { return r.length }

// Characters returns the grapheme-cluster count.
func (r Result) Characters() int { return r.characters }

// Lines returns the line count.
func (r Result) Lines() int { return r.lines }

// Words returns the word count.
func (r Result) Words() int { return r.words }

// SelectedLength returns the selection's UTF-16 code-unit length.
func (r Result) SelectedLength() int { return r.selectedLength }

// SelectedCharacters returns the selection's grapheme-cluster count.
func (r Result) SelectedCharacters() int { return r.selectedCharacters }

// SelectedLines returns the selection's line count.
func (r Result) SelectedLines() int { return r.selectedLines }

// SelectedWords returns the selection's word count.
func (r Result) SelectedWords() int { return r.selectedWords }

// Location returns the caret offset from the document start, in composed
// characters (0-based).
func (r Result) Location() int { return r.location }

// Line returns the 1-based line number at the caret.
func (r Result) Line() int { return r.line }

// Column returns the caret offset from the line start, in composed
// characters (0-based).
func (r Result) Column() int { return r.column }

// Unicode returns the single selected scalar, if one was identified.
func (r Result) Unicode() CodePoint { return r.unicode }

// WithLength returns a copy with the length values set.
func (r Result) WithLength(length, selected int) Result {
	r.length = length
	r.selectedLength = selected
	return r
}

// WithCharacters returns a copy with the character counts set.
func (r Result) WithCharacters(characters, selected int) Result {
	r.characters = characters
	r.selectedCharacters = selected
	return r
}

// WithLines returns a copy with the line counts set.
func (r Result) WithLines(lines, selected int) Result {
	r.lines = lines
	r.selectedLines = selected
	return r
}

// WithWords returns a copy with the word counts set.
func (r Result) WithWords(words, selected int) Result {
	r.words = words
	r.selectedWords = selected
	return r
}

// WithLocation returns a copy with the caret location set.
func (r Result) WithLocation(location int) Result {
	r.location = location
	return r
}

// WithLine returns a copy with the caret line number set.
func (r Result) WithLine(line int) Result {
	r.line = line
	return r
}

// WithColumn returns a copy with the caret column set.
func (r Result) WithColumn(column int) Result {
	r.column = column
	return r
}

// WithUnicode returns a copy with the selected scalar identified.
func (r Result) WithUnicode(cp CodePoint) Result {
	r.unicode = cp
	return r
}
