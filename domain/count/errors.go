package count

import "errors"

// ErrInvalidRange indicates a selection whose offsets fall outside the
// text snapshot. The counting service reports it at submission, before an
// operation exists, so running stages never observe an invalid range.
var ErrInvalidRange = errors.New("selection out of range")

// ErrNotFound indicates the requested operation is not in the registry.
var ErrNotFound = errors.New("operation not found")
