package queries

import (
	"pursuit-backend/pkg/errors"
)

// GetGoalQuery fetches one entity with its milestones and recent progress
type GetGoalQuery struct {
	EntityID string
}

// Validate ensures the query is well formed
func (q *GetGoalQuery) Validate() error {
	if q.EntityID == "" {
		return errors.NewValidationError("entity id is required")
	}
	return nil
}
