package handlers

import (
	"context"
	"time"

	"pursuit-backend/application/queries"
	"pursuit-backend/application/queries/bus"
	appservices "pursuit-backend/application/services"
	"pursuit-backend/pkg/errors"
)

// GetVelocityHandler computes the progress rate for one entity
type GetVelocityHandler struct {
	analytics *appservices.AnalyticsService
}

// NewGetVelocityHandler creates a new handler
func NewGetVelocityHandler(analytics *appservices.AnalyticsService) *GetVelocityHandler {
	return &GetVelocityHandler{analytics: analytics}
}

// Handle implements bus.QueryHandler
func (h *GetVelocityHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.GetVelocityQuery)
	if !ok {
		return nil, errors.NewInternalError("invalid query type for GetVelocityHandler")
	}
	return h.analytics.Velocity(ctx, q.EntityID, time.Now())
}

// GetPredictionHandler computes the completion probability for one entity
type GetPredictionHandler struct {
	analytics *appservices.AnalyticsService
}

// NewGetPredictionHandler creates a new handler
func NewGetPredictionHandler(analytics *appservices.AnalyticsService) *GetPredictionHandler {
	return &GetPredictionHandler{analytics: analytics}
}

// Handle implements bus.QueryHandler
func (h *GetPredictionHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.GetPredictionQuery)
	if !ok {
		return nil, errors.NewInternalError("invalid query type for GetPredictionHandler")
	}
	return h.analytics.Prediction(ctx, q.EntityID, time.Now())
}

// SimulateChangesHandler runs a what-if prediction
type SimulateChangesHandler struct {
	analytics *appservices.AnalyticsService
}

// NewSimulateChangesHandler creates a new handler
func NewSimulateChangesHandler(analytics *appservices.AnalyticsService) *SimulateChangesHandler {
	return &SimulateChangesHandler{analytics: analytics}
}

// Handle implements bus.QueryHandler
func (h *SimulateChangesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(*queries.SimulateChangesQuery)
	if !ok {
		return nil, errors.NewInternalError("invalid query type for SimulateChangesHandler")
	}
	return h.analytics.Simulate(ctx, q.EntityID, q.Changes, time.Now())
}

// GetBatchAnalyticsHandler recomputes metrics for all live entities
type GetBatchAnalyticsHandler struct {
	analytics *appservices.AnalyticsService
}

// NewGetBatchAnalyticsHandler creates a new handler
func NewGetBatchAnalyticsHandler(analytics *appservices.AnalyticsService) *GetBatchAnalyticsHandler {
	return &GetBatchAnalyticsHandler{analytics: analytics}
}

// Handle implements bus.QueryHandler
func (h *GetBatchAnalyticsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(*queries.GetBatchAnalyticsQuery); !ok {
		return nil, errors.NewInternalError("invalid query type for GetBatchAnalyticsHandler")
	}
	return h.analytics.BatchAnalytics(ctx, time.Now())
}
