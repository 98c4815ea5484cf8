package valueobjects

// LifecycleState represents the state of a goal or milestone
type LifecycleState string

const (
	StatePlanned   LifecycleState = "planned"
	StateActive    LifecycleState = "active"
	StatePaused    LifecycleState = "paused"
	StateCompleted LifecycleState = "completed"
	StateFailed    LifecycleState = "failed"
	StateAbandoned LifecycleState = "abandoned"
)

// IsTerminal reports whether no further transition is allowed from the state.
// Terminal entities are excluded from all blocking analysis.
func (s LifecycleState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateAbandoned:
		return true
	default:
		return false
	}
}

// IsValid reports whether the state is one of the known lifecycle states
func (s LifecycleState) IsValid() bool {
	switch s {
	case StatePlanned, StateActive, StatePaused, StateCompleted, StateFailed, StateAbandoned:
		return true
	default:
		return false
	}
}
