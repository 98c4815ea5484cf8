package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pursuit-backend/application/commands"
	"pursuit-backend/application/commands/bus"
	"pursuit-backend/application/queries"
	querybus "pursuit-backend/application/queries/bus"
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/pkg/common"
	"pursuit-backend/pkg/errors"
	"pursuit-backend/pkg/utils"
)

// DependencyHandler handles dependency HTTP requests
type DependencyHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewDependencyHandler creates a new dependency handler
func NewDependencyHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *DependencyHandler {
	return &DependencyHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateDependencyRequest represents the request body for linking entities
type CreateDependencyRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=blocks requires soft_dependency"`
}

// CreateDependencyResponse represents the response for linking entities
type CreateDependencyResponse struct {
	ID        string `json:"id"`
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

// CreateDependency handles POST /dependencies
func (h *DependencyHandler) CreateDependency(w http.ResponseWriter, r *http.Request) {
	var req CreateDependencyRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, string(errors.ErrorTypeValidation), err.Error())
		return
	}

	cmd := &commands.CreateDependencyCommand{
		SourceID: req.SourceID,
		TargetID: req.TargetID,
		Type:     valueobjects.DependencyType(req.Type),
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("failed to create dependency",
			zap.String("sourceId", req.SourceID),
			zap.String("targetId", req.TargetID),
			zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateDependencyResponse{
		ID:        cmd.DependencyID,
		SourceID:  req.SourceID,
		TargetID:  req.TargetID,
		Type:      req.Type,
		CreatedAt: utils.NowRFC3339(),
	})
}

// ValidateDependencies handles GET /dependencies/validate
func (h *DependencyHandler) ValidateDependencies(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), &queries.ValidateDependenciesQuery{})
	if err != nil {
		h.logger.Error("dependency validation failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
