package commands

import (
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/pkg/errors"
)

// CreateDependencyCommand links two entities with a directed dependency.
// The handler runs the cycle pre-check before persisting; validation here
// only covers shape.
type CreateDependencyCommand struct {
	SourceID string
	TargetID string
	Type     valueobjects.DependencyType

	// DependencyID is filled in by the handler after persisting
	DependencyID string
}

// Validate ensures the command is well formed
func (c *CreateDependencyCommand) Validate() error {
	if c.SourceID == "" || c.TargetID == "" {
		return errors.NewValidationError("source and target ids are required")
	}
	if c.SourceID == c.TargetID {
		return errors.NewValidationError("an entity cannot depend on itself")
	}
	if !c.Type.IsValid() {
		return errors.NewValidationError("unknown dependency type")
	}
	return nil
}
