// Package segment provides the text-measurement primitives behind the
// counting engine: UTF-16 code-unit arithmetic, extended-grapheme-cluster
// counting, and line/word segmentation. The long-running scans poll their
// context at bounded intervals so a multi-megabyte snapshot never stalls a
// caller that has cancelled.
package segment

import "errors"

// checkpointInterval is the number of scan steps between cancellation
// checks inside a long-running scan.
const checkpointInterval = 4096

// ErrOffsetRange indicates a UTF-16 offset beyond the end of the text.
var ErrOffsetRange = errors.New("offset out of range")
