package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pursuit-backend/application/commands"
	"pursuit-backend/application/commands/bus"
	"pursuit-backend/application/ports"
	"pursuit-backend/domain/core/aggregates"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/domain/services"
	"pursuit-backend/pkg/errors"
)

// CreateDependencyHandler links two entities. The cycle pre-check runs
// against a fresh graph snapshot before anything is persisted; the graph
// engine never rejects cycles on analysis, so this is the single place
// where cycle creation is prevented.
type CreateDependencyHandler struct {
	goals      ports.GoalRepository
	deps       ports.DependencyRepository
	validation *services.GraphValidationService
	logger     *zap.Logger
}

// NewCreateDependencyHandler creates a new handler
func NewCreateDependencyHandler(
	goals ports.GoalRepository,
	deps ports.DependencyRepository,
	validation *services.GraphValidationService,
	logger *zap.Logger,
) *CreateDependencyHandler {
	return &CreateDependencyHandler{
		goals:      goals,
		deps:       deps,
		validation: validation,
		logger:     logger,
	}
}

// Handle validates both endpoints exist, runs the cycle pre-check, and
// persists the edge
func (h *CreateDependencyHandler) Handle(ctx context.Context, command bus.Command) error {
	cmd, ok := command.(*commands.CreateDependencyCommand)
	if !ok {
		return errors.NewInternalError("invalid command type for CreateDependencyHandler")
	}

	if _, err := h.goals.GetByID(ctx, cmd.SourceID); err != nil {
		return errors.Wrap(err, "source entity not found")
	}
	if _, err := h.goals.GetByID(ctx, cmd.TargetID); err != nil {
		return errors.Wrap(err, "target entity not found")
	}

	if cmd.Type.IsBlocking() {
		items, err := h.goals.ListAll(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to load entities")
		}
		existing, err := h.deps.ListAll(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to load dependencies")
		}

		graph := aggregates.BuildGraph(items, existing)
		if h.validation.WouldCreateCycle(graph, cmd.SourceID, cmd.TargetID) {
			return errors.NewConflictError("dependency would create a circular chain")
		}
	}

	dep := &entities.Dependency{
		ID:        valueobjects.NewEntityID().String(),
		SourceID:  cmd.SourceID,
		TargetID:  cmd.TargetID,
		Type:      cmd.Type,
		CreatedAt: time.Now(),
	}
	if err := h.deps.Save(ctx, dep); err != nil {
		return errors.Wrap(err, "failed to save dependency")
	}
	cmd.DependencyID = dep.ID

	h.logger.Info("dependency created",
		zap.String("sourceId", cmd.SourceID),
		zap.String("targetId", cmd.TargetID),
		zap.String("type", string(cmd.Type)))
	return nil
}
