package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pursuit-backend/application/commands"
	"pursuit-backend/application/commands/bus"
	"pursuit-backend/application/ports"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/pkg/errors"
)

// CreateGoalHandler persists new goal and milestone entities
type CreateGoalHandler struct {
	goals  ports.GoalRepository
	logger *zap.Logger
}

// NewCreateGoalHandler creates a new handler
func NewCreateGoalHandler(goals ports.GoalRepository, logger *zap.Logger) *CreateGoalHandler {
	return &CreateGoalHandler{goals: goals, logger: logger}
}

// Handle creates the entity. When the command carries no id one is
// generated and written back onto the command so the caller can read it.
func (h *CreateGoalHandler) Handle(ctx context.Context, command bus.Command) error {
	cmd, ok := command.(*commands.CreateGoalCommand)
	if !ok {
		return errors.NewInternalError("invalid command type for CreateGoalHandler")
	}

	if cmd.Kind == entities.KindMilestone {
		if _, err := h.goals.GetByID(ctx, cmd.GoalID); err != nil {
			return errors.Wrap(err, "owning goal not found")
		}
	}

	if cmd.EntityID == "" {
		cmd.EntityID = valueobjects.NewEntityID().String()
	}

	entity := &entities.Entity{
		ID:         cmd.EntityID,
		Kind:       cmd.Kind,
		State:      valueobjects.StatePlanned,
		Title:      cmd.Title,
		Priority:   cmd.Priority,
		Progress:   0,
		TargetDate: cmd.TargetDate,
		CreatedAt:  time.Now(),
		GoalID:     cmd.GoalID,
	}

	if err := h.goals.Save(ctx, entity); err != nil {
		return errors.Wrap(err, "failed to save entity")
	}

	h.logger.Info("entity created",
		zap.String("entityId", entity.ID),
		zap.String("kind", string(entity.Kind)))
	return nil
}
