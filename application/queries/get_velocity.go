package queries

import (
	"pursuit-backend/pkg/errors"
)

// GetVelocityQuery computes the progress rate and trend for one entity
type GetVelocityQuery struct {
	EntityID string
}

// Validate ensures the query is well formed
func (q *GetVelocityQuery) Validate() error {
	if q.EntityID == "" {
		return errors.NewValidationError("entity id is required")
	}
	return nil
}
