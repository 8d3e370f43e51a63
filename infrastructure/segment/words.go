package segment

import (
	"context"
	"unicode"

	"github.com/rivo/uniseg"
)

// Words counts the word tokens of s using Unicode word-boundary
// segmentation. Boundary segmentation yields every run between boundaries,
// including spaces and punctuation; only segments carrying at least one
// letter or digit count as words.
func Words(ctx context.Context, s string) (int, error) {
	n := 0
	steps := 0
	state := -1
	var token string
	for len(s) > 0 {
		token, s, state = uniseg.FirstWordInString(s, state)
		if isWordToken(token) {
			n++
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

// isWordToken reports whether a boundary segment is a word rather than a
// run of spaces, punctuation, or symbols.
func isWordToken(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
