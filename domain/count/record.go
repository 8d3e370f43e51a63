package count

import "time"

// Record is the archived summary of one finished counting operation. The
// operation itself is ephemeral; after its completion signal the service
// may append a Record to the history store for diagnostics.
type Record struct {
	id               string
	createdAt        time.Time
	state            State
	metrics          Metric
	lineEnding       LineEnding
	countsLineEnding bool
	textUnits        int
	duration         time.Duration
	result           Result
}

// NewRecord creates a history record for a finished operation.
func NewRecord(
	id string,
	createdAt time.Time,
	state State,
	metrics Metric,
	lineEnding LineEnding,
	countsLineEnding bool,
	textUnits int,
	duration time.Duration,
	result Result,
) Record {
	return Record{
		id:               id,
		createdAt:        createdAt,
		state:            state,
		metrics:          metrics,
		lineEnding:       lineEnding,
		countsLineEnding: countsLineEnding,
		textUnits:        textUnits,
		duration:         duration,
		result:           result,
	}
}

// ID returns the operation id.
func (r Record) ID() string { return r.id }

// CreatedAt returns when the operation was submitted.
func (r Record) CreatedAt() time.Time { return r.createdAt }

// State returns the terminal state the operation reached.
func (r Record) State() State { return r.state }

// Metrics returns the metric set the operation requested.
func (r Record) Metrics() Metric { return r.metrics }

// LineEnding returns the request's line-ending convention.
func (r Record) LineEnding() LineEnding { return r.lineEnding }

// CountsLineEnding reports the request's terminator-counting policy.
func (r Record) CountsLineEnding() bool { return r.countsLineEnding }

// TextUnits returns the snapshot length in UTF-16 code units.
func (r Record) TextUnits() int { return r.textUnits }

// Duration returns the operation's wall time.
func (r Record) Duration() time.Duration { return r.duration }

// Result returns the record's result values.
func (r Record) Result() Result { return r.result }
