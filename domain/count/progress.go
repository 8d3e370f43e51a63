package count

import "time"

// Progress is a point-in-time view of one operation's staged computation,
// handed to tracking reporters. Stage names are public metric names.
type Progress struct {
	operationID string
	state       State
	stage       string
	stagesDone  int
	stagesTotal int
	message     string
	updatedAt   time.Time
}

// NewProgress creates a pending Progress for an operation expected to run
// the given number of stages.
func NewProgress(operationID string, stagesTotal int) Progress {
	return Progress{
		operationID: operationID,
		state:       StatePending,
		stagesTotal: stagesTotal,
		updatedAt:   time.Now().UTC(),
	}
}

// OperationID returns the operation this progress belongs to.
func (p Progress) OperationID() string { return p.operationID }

// State returns the operation state at this point.
func (p Progress) State() State { return p.state }

// Stage returns the metric name of the stage last touched.
func (p Progress) Stage() string { return p.stage }

// StagesDone returns the number of finished stages.
func (p Progress) StagesDone() int { return p.stagesDone }

// StagesTotal returns the number of stages the operation will run.
func (p Progress) StagesTotal() int { return p.stagesTotal }

// Message returns the optional progress message.
func (p Progress) Message() string { return p.message }

// UpdatedAt returns when this progress was produced.
func (p Progress) UpdatedAt() time.Time { return p.updatedAt }

// CompletionPercent calculates the completion percentage.
func (p Progress) CompletionPercent() float64 {
	if p.stagesTotal == 0 {
		return 0.0
	}
	percent := float64(p.stagesDone) / float64(p.stagesTotal) * 100.0
	if percent < 0 {
		return 0.0
	}
	if percent > 100 {
		return 100.0
	}
	return percent
}

// Running returns a copy marking the given stage as started.
func (p Progress) Running(stage string) Progress {
	if p.state.IsTerminal() {
		return p
	}
	p.state = StateRunning
	p.stage = stage
	p.updatedAt = time.Now().UTC()
	return p
}

// StageDone returns a copy with the given stage counted as finished.
func (p Progress) StageDone(stage string) Progress {
	if p.state.IsTerminal() {
		return p
	}
	p.state = StateRunning
	p.stage = stage
	p.stagesDone++
	p.updatedAt = time.Now().UTC()
	return p
}

// Completed returns a copy in the completed state.
// If already in a terminal state, no change is made.
func (p Progress) Completed() Progress {
	if p.state.IsTerminal() {
		return p
	}
	p.state = StateCompleted
	p.stagesDone = p.stagesTotal
	p.updatedAt = time.Now().UTC()
	return p
}

// Cancelled returns a copy in the cancelled state with a reason message.
// If already in a terminal state, no change is made.
func (p Progress) Cancelled(message string) Progress {
	if p.state.IsTerminal() {
		return p
	}
	p.state = StateCancelled
	p.message = message
	p.updatedAt = time.Now().UTC()
	return p
}
