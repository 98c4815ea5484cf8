package queries

import (
	"pursuit-backend/pkg/errors"
)

// GetPredictionQuery computes the completion-probability estimate for one
// entity
type GetPredictionQuery struct {
	EntityID string
}

// Validate ensures the query is well formed
func (q *GetPredictionQuery) Validate() error {
	if q.EntityID == "" {
		return errors.NewValidationError("entity id is required")
	}
	return nil
}
