package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pursuit-backend/application/queries"
	querybus "pursuit-backend/application/queries/bus"
	"pursuit-backend/domain/services"
	"pursuit-backend/pkg/common"
	"pursuit-backend/pkg/errors"
	"pursuit-backend/pkg/utils"
)

// AnalyticsHandler handles velocity, prediction, and simulation requests
type AnalyticsHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// SimulateRequest represents the what-if overrides for a simulation
type SimulateRequest struct {
	NewProgress          *float64 `json:"new_progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	NewTargetDate        *string  `json:"new_target_date,omitempty"`
	PriorityDelta        *int     `json:"priority_delta,omitempty"`
	RemovedDependencyIDs []string `json:"removed_dependency_ids,omitempty"`
}

// GetVelocity handles GET /analytics/{goalID}/velocity
func (h *AnalyticsHandler) GetVelocity(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "goal id is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), &queries.GetVelocityQuery{EntityID: goalID})
	if err != nil {
		h.logger.Error("velocity computation failed", zap.String("entityId", goalID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetPrediction handles GET /analytics/{goalID}/prediction
func (h *AnalyticsHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "goal id is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), &queries.GetPredictionQuery{EntityID: goalID})
	if err != nil {
		h.logger.Error("prediction computation failed", zap.String("entityId", goalID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// Simulate handles POST /analytics/{goalID}/simulate
func (h *AnalyticsHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "goal id is required")
		return
	}

	var req SimulateRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), err.Error())
		return
	}

	var newTargetDate *time.Time
	if req.NewTargetDate != nil {
		parsed, err := utils.ParseRFC3339(*req.NewTargetDate)
		if err != nil {
			common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "new_target_date must be RFC 3339")
			return
		}
		newTargetDate = &parsed
	}

	query := &queries.SimulateChangesQuery{
		EntityID: goalID,
		Changes: services.SimulationChanges{
			NewProgress:          req.NewProgress,
			NewTargetDate:        newTargetDate,
			PriorityDelta:        req.PriorityDelta,
			RemovedDependencyIDs: req.RemovedDependencyIDs,
		},
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("simulation failed", zap.String("entityId", goalID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetExecutionPlan handles GET /analytics/plan
func (h *AnalyticsHandler) GetExecutionPlan(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), &queries.GetExecutionPlanQuery{})
	if err != nil {
		h.logger.Error("execution plan failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
