package segment

import (
	"context"

	"github.com/rivo/uniseg"
)

// Graphemes counts the extended grapheme clusters of s — user-perceived
// characters under Unicode text-segmentation rules. A cluster may span a
// surrogate pair or a base character plus combining marks; either way it
// counts once. The scan is abortable at cluster granularity: when ctx is
// cancelled the partial tally is discarded and ctx.Err() returned.
func Graphemes(ctx context.Context, s string) (int, error) {
	n := 0
	state := -1
	for len(s) > 0 {
		_, s, _, state = uniseg.StepString(s, state)
		n++
		if n%checkpointInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}
