package handlers

import (
	"context"

	"pursuit-backend/application/queries"
	"pursuit-backend/application/queries/bus"
	appservices "pursuit-backend/application/services"
	"pursuit-backend/pkg/errors"
)

// ValidateDependenciesHandler runs the structural report over the current
// graph
type ValidateDependenciesHandler struct {
	analytics *appservices.AnalyticsService
}

// NewValidateDependenciesHandler creates a new handler
func NewValidateDependenciesHandler(analytics *appservices.AnalyticsService) *ValidateDependenciesHandler {
	return &ValidateDependenciesHandler{analytics: analytics}
}

// Handle implements bus.QueryHandler
func (h *ValidateDependenciesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(*queries.ValidateDependenciesQuery); !ok {
		return nil, errors.NewInternalError("invalid query type for ValidateDependenciesHandler")
	}
	return h.analytics.ValidateDependencies(ctx)
}

// GetExecutionPlanHandler derives execution order and critical path
type GetExecutionPlanHandler struct {
	analytics *appservices.AnalyticsService
}

// NewGetExecutionPlanHandler creates a new handler
func NewGetExecutionPlanHandler(analytics *appservices.AnalyticsService) *GetExecutionPlanHandler {
	return &GetExecutionPlanHandler{analytics: analytics}
}

// Handle implements bus.QueryHandler
func (h *GetExecutionPlanHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(*queries.GetExecutionPlanQuery); !ok {
		return nil, errors.NewInternalError("invalid query type for GetExecutionPlanHandler")
	}
	return h.analytics.ExecutionPlan(ctx)
}
