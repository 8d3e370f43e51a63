package count

// State is the lifecycle state of a counting operation. Operations move
// Pending → Running → {Completed, Cancelled}; the terminal states are
// mutually exclusive and entered exactly once.
type State string

// State values.
const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// IsTerminal returns true if the state represents a terminal (final) state.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// IsValid reports whether the state is one of the recognized values.
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateRunning, StateCompleted, StateCancelled:
		return true
	}
	return false
}
