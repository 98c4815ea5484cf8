package handlers

import (
	"context"

	"pursuit-backend/application/ports"
	"pursuit-backend/application/queries"
	"pursuit-backend/application/queries/bus"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/errors"
)

// GoalView is the read model returned for a single entity
type GoalView struct {
	Entity     *entities.Entity           `json:"entity"`
	Milestones []*entities.Entity         `json:"milestones,omitempty"`
	Progress   []*entities.ProgressUpdate `json:"progress"`
}

// GetGoalHandler fetches one entity with its milestones and history
type GetGoalHandler struct {
	goals    ports.GoalRepository
	progress ports.ProgressRepository
}

// NewGetGoalHandler creates a new handler
func NewGetGoalHandler(goals ports.GoalRepository, progress ports.ProgressRepository) *GetGoalHandler {
	return &GetGoalHandler{goals: goals, progress: progress}
}

// Handle implements bus.QueryHandler
func (h *GetGoalHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.GetGoalQuery)
	if !ok {
		return nil, errors.NewInternalError("invalid query type for GetGoalHandler")
	}

	entity, err := h.goals.GetByID(ctx, q.EntityID)
	if err != nil {
		return nil, err
	}

	view := &GoalView{Entity: entity}

	if entity.Kind == entities.KindGoal {
		milestones, err := h.goals.ListMilestones(ctx, entity.ID)
		if err != nil {
			return nil, err
		}
		view.Milestones = milestones
	}

	updates, err := h.progress.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, err
	}
	view.Progress = updates

	return view, nil
}

// ListGoalsHandler lists all top-level goals
type ListGoalsHandler struct {
	goals ports.GoalRepository
}

// NewListGoalsHandler creates a new handler
func NewListGoalsHandler(goals ports.GoalRepository) *ListGoalsHandler {
	return &ListGoalsHandler{goals: goals}
}

// Handle implements bus.QueryHandler
func (h *ListGoalsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(*queries.ListGoalsQuery); !ok {
		return nil, errors.NewInternalError("invalid query type for ListGoalsHandler")
	}
	return h.goals.ListGoals(ctx)
}
