package entities

import (
	"time"

	"pursuit-backend/domain/core/valueobjects"
)

// EntityKind discriminates goals from milestones
type EntityKind string

const (
	KindGoal      EntityKind = "goal"
	KindMilestone EntityKind = "milestone"
)

// Entity is a read-only snapshot of one goal or milestone.
// The analytics and graph engines never mutate snapshots; callers supply
// fresh collections per invocation and receive newly allocated results.
type Entity struct {
	ID         string
	Kind       EntityKind
	State      valueobjects.LifecycleState
	Title      string
	Priority   int
	Progress   float64 // 0-100
	TargetDate *time.Time
	CreatedAt  time.Time

	// GoalID links a milestone to its owning goal. Empty for goals.
	GoalID string
}

// IsTerminal reports whether the entity is in a terminal lifecycle state
func (e *Entity) IsTerminal() bool {
	return e.State.IsTerminal()
}

// IsCompleted reports whether the entity has reached the completed state
func (e *Entity) IsCompleted() bool {
	return e.State == valueobjects.StateCompleted
}

// RemainingProgress returns how many progress points are left to 100
func (e *Entity) RemainingProgress() float64 {
	if e.Progress >= 100 {
		return 0
	}
	return 100 - e.Progress
}

// Clone returns a copy of the snapshot. Simulation applies hypothetical
// changes to clones so the caller's snapshot is never touched.
func (e *Entity) Clone() *Entity {
	clone := *e
	if e.TargetDate != nil {
		t := *e.TargetDate
		clone.TargetDate = &t
	}
	return &clone
}
