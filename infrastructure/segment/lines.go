package segment

import (
	"context"

	"github.com/helixml/textstat/domain/count"
)

// Lines counts the line segments of s: the number of line starts. The empty
// string has no lines, a string without a terminator is one line, and a
// trailing terminator starts no extra empty line. CRLF is one terminator.
func Lines(ctx context.Context, s string) (int, error) {
	if len(s) == 0 {
		return 0, nil
	}
	n := 1
	steps := 0
	for i := 0; i < len(s); {
		w := count.TerminatorWidth(s, i)
		if w == 0 {
			i++
		} else {
			i += w
			if i < len(s) {
				n++
			}
		}
		steps++
		if steps%checkpointInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}

// LineNumber returns the 1-based index of the line containing the given
// byte offset. An offset inside a CRLF pair stays on the terminator's line.
func LineNumber(s string, offset int) int {
	n := 1
	for i := 0; i < offset && i < len(s); {
		w := count.TerminatorWidth(s, i)
		if w == 0 {
			i++
			continue
		}
		if i+w <= offset {
			n++
		}
		i += w
	}
	return n
}

// LineStart returns the byte offset of the start of the line containing the
// given byte offset, the line-boundary base used for column measurement.
func LineStart(s string, offset int) int {
	start := 0
	for i := 0; i < offset && i < len(s); {
		w := count.TerminatorWidth(s, i)
		if w == 0 {
			i++
			continue
		}
		if i+w <= offset {
			start = i + w
		}
		i += w
	}
	return start
}
