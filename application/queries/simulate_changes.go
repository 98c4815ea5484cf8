package queries

import (
	"pursuit-backend/domain/services"
	"pursuit-backend/pkg/errors"
)

// SimulateChangesQuery runs a what-if prediction against hypothetical
// overrides without persisting anything
type SimulateChangesQuery struct {
	EntityID string
	Changes  services.SimulationChanges
}

// Validate ensures the query is well formed
func (q *SimulateChangesQuery) Validate() error {
	if q.EntityID == "" {
		return errors.NewValidationError("entity id is required")
	}
	if q.Changes.NewProgress != nil && (*q.Changes.NewProgress < 0 || *q.Changes.NewProgress > 100) {
		return errors.NewValidationError("new progress must be between 0 and 100")
	}
	return nil
}
