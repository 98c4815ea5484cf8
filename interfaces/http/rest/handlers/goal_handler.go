package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pursuit-backend/application/commands"
	"pursuit-backend/application/commands/bus"
	"pursuit-backend/application/queries"
	querybus "pursuit-backend/application/queries/bus"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/common"
	"pursuit-backend/pkg/errors"
	"pursuit-backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// GoalHandler handles goal and milestone HTTP requests
type GoalHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *GoalHandler {
	return &GoalHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateGoalRequest represents the request body for creating an entity
type CreateGoalRequest struct {
	Kind       string  `json:"kind" validate:"required,oneof=goal milestone"`
	Title      string  `json:"title" validate:"required,min=1,max=200"`
	Priority   int     `json:"priority" validate:"gte=0,lte=100"`
	TargetDate *string `json:"target_date,omitempty"`

	// GoalID is required when kind is milestone
	GoalID string `json:"goal_id,omitempty"`
}

// CreateGoalResponse represents the response for creating an entity
type CreateGoalResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// RecordProgressRequest represents the request body for a progress update
type RecordProgressRequest struct {
	Percentage      float64 `json:"percentage" validate:"gte=0,lte=100"`
	MotivationLevel *int    `json:"motivation_level,omitempty" validate:"omitempty,gte=1,lte=10"`
	ConfidenceLevel *int    `json:"confidence_level,omitempty" validate:"omitempty,gte=1,lte=10"`
}

// CreateGoal handles POST /goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), err.Error())
		return
	}

	var targetDate *time.Time
	if req.TargetDate != nil {
		parsed, err := utils.ParseRFC3339(*req.TargetDate)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "target_date must be RFC 3339")
			return
		}
		targetDate = &parsed
	}

	cmd := &commands.CreateGoalCommand{
		Kind:       entities.EntityKind(req.Kind),
		Title:      req.Title,
		Priority:   req.Priority,
		TargetDate: targetDate,
		GoalID:     req.GoalID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("failed to create entity", zap.String("kind", req.Kind), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateGoalResponse{
		ID:        cmd.EntityID,
		Kind:      req.Kind,
		CreatedAt: utils.NowRFC3339(),
	})
}

// GetGoal handles GET /goals/{goalID}
func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "goal id is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), &queries.GetGoalQuery{EntityID: goalID})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListGoals handles GET /goals
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), &queries.ListGoalsQuery{})
	if err != nil {
		h.logger.Error("failed to list goals", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RecordProgress handles POST /goals/{goalID}/progress
func (h *GoalHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "goal id is required")
		return
	}

	var req RecordProgressRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), err.Error())
		return
	}

	cmd := &commands.RecordProgressCommand{
		EntityID:        goalID,
		Percentage:      req.Percentage,
		MotivationLevel: req.MotivationLevel,
		ConfidenceLevel: req.ConfidenceLevel,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("failed to record progress", zap.String("entityId", goalID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":          goalID,
		"percentage":  req.Percentage,
		"recorded_at": utils.NowRFC3339(),
	})
}
