package commands

import (
	"pursuit-backend/pkg/errors"
)

// RecordProgressCommand appends a progress observation to an entity's
// history and moves its current progress value
type RecordProgressCommand struct {
	EntityID   string
	Percentage float64

	// Optional behavioral readings, 1-10 when present
	MotivationLevel *int
	ConfidenceLevel *int
}

// Validate ensures the command is well formed
func (c *RecordProgressCommand) Validate() error {
	if c.EntityID == "" {
		return errors.NewValidationError("entity id is required")
	}
	if c.Percentage < 0 || c.Percentage > 100 {
		return errors.NewValidationError("percentage must be between 0 and 100")
	}
	if c.MotivationLevel != nil && (*c.MotivationLevel < 1 || *c.MotivationLevel > 10) {
		return errors.NewValidationError("motivation level must be between 1 and 10")
	}
	if c.ConfidenceLevel != nil && (*c.ConfidenceLevel < 1 || *c.ConfidenceLevel > 10) {
		return errors.NewValidationError("confidence level must be between 1 and 10")
	}
	return nil
}
