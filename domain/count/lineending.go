package count

import (
	"fmt"
	"strings"
)

// LineEnding is a document line-ending convention. The engine recognizes
// every convention below when scanning text; a request's convention decides
// what terminators normalize to before length measurement.
type LineEnding string

// LineEnding values.
const (
	LineEndingLF                 LineEnding = "LF"
	LineEndingCR                 LineEnding = "CR"
	LineEndingCRLF               LineEnding = "CRLF"
	LineEndingNEL                LineEnding = "NEL"
	LineEndingLineSeparator      LineEnding = "LS"
	LineEndingParagraphSeparator LineEnding = "PS"
)

// lineEndingSequences maps each convention to its terminator characters.
var lineEndingSequences = map[LineEnding]string{
	LineEndingLF:                 "\n",
	LineEndingCR:                 "\r",
	LineEndingCRLF:               "\r\n",
	LineEndingNEL:                "\u0085",
	LineEndingLineSeparator:      "\u2028",
	LineEndingParagraphSeparator: "\u2029",
}

// ParseLineEnding resolves a convention name. Names are case-insensitive.
func ParseLineEnding(name string) (LineEnding, error) {
	le := LineEnding(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := lineEndingSequences[le]; !ok {
		return "", fmt.Errorf("unknown line ending %q", name)
	}
	return le, nil
}

// String returns the convention name.
func (e LineEnding) String() string { return string(e) }

// IsValid reports whether the convention is one of the recognized values.
func (e LineEnding) IsValid() bool {
	_, ok := lineEndingSequences[e]
	return ok
}

// Sequence returns the terminator characters of the convention.
func (e LineEnding) Sequence() string {
	return lineEndingSequences[e]
}

// UnitLength returns the width of the terminator in UTF-16 code units:
// 2 for CRLF, 1 for every single-character convention.
func (e LineEnding) UnitLength() int {
	if e == LineEndingCRLF {
		return 2
	}
	return 1
}

// Normalize rewrites every recognized line-terminator sequence in s to this
// convention's sequence. When nothing needs rewriting the input is returned
// unchanged, which is also the fast path for measuring text that already
// follows a single-unit convention.
func (e LineEnding) Normalize(s string) string {
	seq := e.Sequence()
	var b strings.Builder
	dirty := false
	last := 0
	for i := 0; i < len(s); {
		w := TerminatorWidth(s, i)
		if w == 0 {
			i++
			continue
		}
		if s[i:i+w] == seq {
			i += w
			continue
		}
		if !dirty {
			b.Grow(len(s) + len(seq))
			dirty = true
		}
		b.WriteString(s[last:i])
		b.WriteString(seq)
		i += w
		last = i
	}
	if !dirty {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// TerminatorWidth returns the byte width of the line-terminator sequence
// starting at byte offset i of s, or 0 when no terminator starts there.
// CRLF is one two-byte terminator; CR, LF, NEL, LS and PS stand alone.
func TerminatorWidth(s string, i int) int {
	switch s[i] {
	case '\r':
		if i+1 < len(s) && s[i+1] == '\n' {
			return 2
		}
		return 1
	case '\n':
		return 1
	case 0xC2: // U+0085 NEL
		if i+1 < len(s) && s[i+1] == 0x85 {
			return 2
		}
	case 0xE2: // U+2028 LS, U+2029 PS
		if i+2 < len(s) && s[i+1] == 0x80 && (s[i+2] == 0xA8 || s[i+2] == 0xA9) {
			return 3
		}
	}
	return 0
}

// StripTerminators removes every recognized line-terminator sequence from s.
func StripTerminators(s string) string {
	var b strings.Builder
	dirty := false
	last := 0
	for i := 0; i < len(s); {
		w := TerminatorWidth(s, i)
		if w == 0 {
			i++
			continue
		}
		if !dirty {
			b.Grow(len(s))
			dirty = true
		}
		b.WriteString(s[last:i])
		i += w
		last = i
	}
	if !dirty {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// DetectLineEnding returns the convention of the first terminator found in
// s, defaulting to LF when s has none.
func DetectLineEnding(s string) LineEnding {
	for i := 0; i < len(s); {
		w := TerminatorWidth(s, i)
		if w == 0 {
			i++
			continue
		}
		switch s[i : i+w] {
		case "\r\n":
			return LineEndingCRLF
		case "\r":
			return LineEndingCR
		case "\n":
			return LineEndingLF
		case "\u0085":
			return LineEndingNEL
		case "\u2028":
			return LineEndingLineSeparator
		case "\u2029":
			return LineEndingParagraphSeparator
		}
		i += w
	}
	return LineEndingLF
}
