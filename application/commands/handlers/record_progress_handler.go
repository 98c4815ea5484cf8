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

// RecordProgressHandler appends a progress update and moves the entity's
// current progress value
type RecordProgressHandler struct {
	goals    ports.GoalRepository
	progress ports.ProgressRepository
	logger   *zap.Logger
}

// NewRecordProgressHandler creates a new handler
func NewRecordProgressHandler(goals ports.GoalRepository, progress ports.ProgressRepository, logger *zap.Logger) *RecordProgressHandler {
	return &RecordProgressHandler{goals: goals, progress: progress, logger: logger}
}

// Handle records the observation. Terminal entities no longer accept
// progress.
func (h *RecordProgressHandler) Handle(ctx context.Context, command bus.Command) error {
	cmd, ok := command.(*commands.RecordProgressCommand)
	if !ok {
		return errors.NewInternalError("invalid command type for RecordProgressHandler")
	}

	entity, err := h.goals.GetByID(ctx, cmd.EntityID)
	if err != nil {
		return errors.Wrap(err, "entity not found")
	}
	if entity.IsTerminal() {
		return errors.NewConflictError("cannot record progress on a terminal entity")
	}

	now := time.Now()
	update := &entities.ProgressUpdate{
		ID:              valueobjects.NewEntityID().String(),
		EntityID:        cmd.EntityID,
		Percentage:      cmd.Percentage,
		CreatedAt:       now,
		MotivationLevel: cmd.MotivationLevel,
		ConfidenceLevel: cmd.ConfidenceLevel,
	}
	if err := h.progress.Save(ctx, update); err != nil {
		return errors.Wrap(err, "failed to save progress update")
	}

	entity.Progress = cmd.Percentage
	if entity.State == valueobjects.StatePlanned && cmd.Percentage > 0 {
		entity.State = valueobjects.StateActive
	}
	if cmd.Percentage >= 100 {
		entity.State = valueobjects.StateCompleted
	}
	if err := h.goals.Save(ctx, entity); err != nil {
		return errors.Wrap(err, "failed to update entity progress")
	}

	h.logger.Info("progress recorded",
		zap.String("entityId", cmd.EntityID),
		zap.Float64("percentage", cmd.Percentage))
	return nil
}
