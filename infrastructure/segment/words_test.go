package segment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"two words", "Hello World", 2},
		{"newline separated", "Hello\nWorld", 2},
		{"punctuation only is no word", "... !!! ---", 0},
		{"apostrophe keeps one word", "don't", 1},
		{"digits count", "chapter 12", 2},
		{"hyphenated splits", "well-known", 2},
		{"accented word", "café au lait", 3},
		{"trailing punctuation", "Hello, World!", 2},
		{"single word", "word", 1},
		{"whitespace only", "   \t  ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Words(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		})
	}
}

func TestWords_CancelledMidScan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	long := strings.Repeat("word ", checkpointInterval)
	_, err := Words(ctx, long)
	require.ErrorIs(t, err, context.Canceled)
}
