package commands

import (
	"time"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/errors"
)

// CreateGoalCommand creates a new goal or milestone entity
type CreateGoalCommand struct {
	EntityID   string
	Kind       entities.EntityKind
	Title      string
	Priority   int
	TargetDate *time.Time

	// GoalID is required for milestones, empty for goals
	GoalID string
}

// Validate ensures the command is well formed
func (c *CreateGoalCommand) Validate() error {
	if c.Title == "" {
		return errors.NewValidationError("title is required")
	}
	if c.Kind != entities.KindGoal && c.Kind != entities.KindMilestone {
		return errors.NewValidationError("kind must be goal or milestone")
	}
	if c.Kind == entities.KindMilestone && c.GoalID == "" {
		return errors.NewValidationError("milestones require a goal id")
	}
	if c.Kind == entities.KindGoal && c.GoalID != "" {
		return errors.NewValidationError("goals cannot belong to another goal")
	}
	if c.Priority < 0 {
		return errors.NewValidationError("priority cannot be negative")
	}
	return nil
}
