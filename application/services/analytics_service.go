package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pursuit-backend/application/ports"
	"pursuit-backend/domain/core/aggregates"
	"pursuit-backend/domain/core/entities"
	domainservices "pursuit-backend/domain/services"
	"pursuit-backend/pkg/errors"
	"pursuit-backend/pkg/observability"
)

// ExecutionPlan is the ordering view over the current graph
type ExecutionPlan struct {
	Order        []string                           `json:"order"`
	CriticalPath domainservices.CriticalPathResult `json:"criticalPath"`
}

// BatchAnalyticsResult carries one recompute pass over all live entities
type BatchAnalyticsResult struct {
	Metrics    []*ports.EntityMetrics `json:"metrics"`
	ComputedAt time.Time              `json:"computedAt"`
}

// AnalyticsService is the application-side facade over the pure domain
// engines. It materializes fresh snapshots from the repositories, derives
// blocking signals and the historical base rate, invokes the engines with
// a single "now", and optionally persists derived metrics.
type AnalyticsService struct {
	goals      ports.GoalRepository
	progress   ports.ProgressRepository
	deps       ports.DependencyRepository
	metrics    ports.MetricsStore
	validation *domainservices.GraphValidationService
	planning   *domainservices.GraphPlanningService
	velocity   *domainservices.VelocityService
	prediction *domainservices.PredictionService
	simulation *domainservices.SimulationService
	tracer     *observability.Tracer
	logger     *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	goals ports.GoalRepository,
	progress ports.ProgressRepository,
	deps ports.DependencyRepository,
	metrics ports.MetricsStore,
	validation *domainservices.GraphValidationService,
	planning *domainservices.GraphPlanningService,
	velocity *domainservices.VelocityService,
	prediction *domainservices.PredictionService,
	simulation *domainservices.SimulationService,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		goals:      goals,
		progress:   progress,
		deps:       deps,
		metrics:    metrics,
		validation: validation,
		planning:   planning,
		velocity:   velocity,
		prediction: prediction,
		simulation: simulation,
		tracer:     observability.NewTracer("pursuit-analytics"),
		logger:     logger,
	}
}

// ValidateDependencies builds a fresh graph snapshot and runs the full
// structural report
func (s *AnalyticsService) ValidateDependencies(ctx context.Context) (domainservices.ValidationReport, error) {
	var report domainservices.ValidationReport
	err := s.tracer.TraceFunction(ctx, "analytics.validate_dependencies", func(ctx context.Context) error {
		items, deps, err := s.loadGraphInputs(ctx)
		if err != nil {
			return err
		}
		report = s.validation.ValidateDependencies(items, nil, deps)
		return nil
	})
	return report, err
}

// ExecutionPlan derives the execution order and critical path
func (s *AnalyticsService) ExecutionPlan(ctx context.Context) (ExecutionPlan, error) {
	items, deps, err := s.loadGraphInputs(ctx)
	if err != nil {
		return ExecutionPlan{}, err
	}
	graph := aggregates.BuildGraph(items, deps)
	return ExecutionPlan{
		Order:        s.planning.ExecutionOrder(graph),
		CriticalPath: s.planning.CriticalPath(graph),
	}, nil
}

// Velocity computes the progress rate for one entity
func (s *AnalyticsService) Velocity(ctx context.Context, entityID string, now time.Time) (domainservices.VelocityResult, error) {
	entity, err := s.goals.GetByID(ctx, entityID)
	if err != nil {
		return domainservices.VelocityResult{}, errors.Wrap(err, "entity not found")
	}
	updates, err := s.progress.ListByEntity(ctx, entityID)
	if err != nil {
		return domainservices.VelocityResult{}, errors.Wrap(err, "failed to load progress history")
	}
	return s.velocity.ComputeVelocity(entityID, updates, entity.CreatedAt, now), nil
}

// Prediction computes the completion-probability estimate for one entity
func (s *AnalyticsService) Prediction(ctx context.Context, entityID string, now time.Time) (domainservices.PredictionResult, error) {
	inputs, err := s.loadPredictionInputs(ctx, entityID)
	if err != nil {
		return domainservices.PredictionResult{}, err
	}
	return s.prediction.PredictCompletionProbability(
		inputs.entity, inputs.milestones, inputs.updates,
		inputs.signals, inputs.historicalRate, now,
	), nil
}

// Simulate runs a what-if prediction with the given overrides
func (s *AnalyticsService) Simulate(ctx context.Context, entityID string, changes domainservices.SimulationChanges, now time.Time) (domainservices.SimulationResult, error) {
	inputs, err := s.loadPredictionInputs(ctx, entityID)
	if err != nil {
		return domainservices.SimulationResult{}, err
	}
	return s.simulation.SimulateChanges(
		inputs.entity, inputs.milestones, inputs.updates,
		inputs.signals, inputs.historicalRate, changes, now,
	), nil
}

// BatchAnalytics recomputes velocity and prediction for every non-terminal
// entity and persists the derived metrics through the metrics store
func (s *AnalyticsService) BatchAnalytics(ctx context.Context, now time.Time) (BatchAnalyticsResult, error) {
	result := BatchAnalyticsResult{ComputedAt: now, Metrics: []*ports.EntityMetrics{}}
	err := s.tracer.TraceFunction(ctx, "analytics.batch_analytics", func(ctx context.Context) error {
		items, err := s.goals.ListAll(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to load entities")
		}

		for _, item := range items {
			if item.IsTerminal() {
				continue
			}

			vel, err := s.Velocity(ctx, item.ID, now)
			if err != nil {
				s.logger.Warn("velocity computation failed", zap.String("entityId", item.ID), zap.Error(err))
				continue
			}
			pred, err := s.Prediction(ctx, item.ID, now)
			if err != nil {
				s.logger.Warn("prediction computation failed", zap.String("entityId", item.ID), zap.Error(err))
				continue
			}

			metrics := &ports.EntityMetrics{
				EntityID:   item.ID,
				Velocity:   vel,
				Prediction: pred,
				ComputedAt: now,
			}
			if err := s.metrics.Save(ctx, metrics); err != nil {
				s.logger.Warn("failed to persist metrics", zap.String("entityId", item.ID), zap.Error(err))
			}
			result.Metrics = append(result.Metrics, metrics)
		}
		return nil
	})
	if err != nil {
		return BatchAnalyticsResult{}, err
	}
	return result, nil
}

type predictionInputs struct {
	entity         *entities.Entity
	milestones     []*entities.Entity
	updates        []*entities.ProgressUpdate
	signals        []domainservices.BlockingSignal
	historicalRate float64
}

func (s *AnalyticsService) loadPredictionInputs(ctx context.Context, entityID string) (predictionInputs, error) {
	entity, err := s.goals.GetByID(ctx, entityID)
	if err != nil {
		return predictionInputs{}, errors.Wrap(err, "entity not found")
	}
	milestones, err := s.goals.ListMilestones(ctx, entityID)
	if err != nil {
		return predictionInputs{}, errors.Wrap(err, "failed to load milestones")
	}
	updates, err := s.progress.ListByEntity(ctx, entityID)
	if err != nil {
		return predictionInputs{}, errors.Wrap(err, "failed to load progress history")
	}
	signals, err := s.blockingSignals(ctx, entityID)
	if err != nil {
		return predictionInputs{}, err
	}
	rate, err := s.historicalCompletionRate(ctx)
	if err != nil {
		return predictionInputs{}, err
	}
	return predictionInputs{
		entity:         entity,
		milestones:     milestones,
		updates:        updates,
		signals:        signals,
		historicalRate: rate,
	}, nil
}

// blockingSignals lists the entity's outgoing blocking edges whose target
// is known and not yet completed
func (s *AnalyticsService) blockingSignals(ctx context.Context, entityID string) ([]domainservices.BlockingSignal, error) {
	deps, err := s.deps.ListBySource(ctx, entityID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dependencies")
	}

	var signals []domainservices.BlockingSignal
	for _, dep := range deps {
		if !dep.IsBlocking() || dep.IsSelfEdge() {
			continue
		}
		target, err := s.goals.GetByID(ctx, dep.TargetID)
		if err != nil || target.IsCompleted() {
			continue
		}
		signals = append(signals, domainservices.BlockingSignal{
			DependencyID: dep.ID,
			BlockerID:    target.ID,
			BlockerTitle: target.Title,
		})
	}
	return signals, nil
}

// historicalCompletionRate is the share of terminal entities that finished
// in the completed state, as a 0-100 rate. With no terminal entities yet
// the rate defaults to a neutral 50.
func (s *AnalyticsService) historicalCompletionRate(ctx context.Context) (float64, error) {
	items, err := s.goals.ListAll(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load entities")
	}

	terminal, completed := 0, 0
	for _, item := range items {
		if !item.IsTerminal() {
			continue
		}
		terminal++
		if item.IsCompleted() {
			completed++
		}
	}
	if terminal == 0 {
		return 50, nil
	}
	return float64(completed) / float64(terminal) * 100, nil
}

func (s *AnalyticsService) loadGraphInputs(ctx context.Context) ([]*entities.Entity, []*entities.Dependency, error) {
	items, err := s.goals.ListAll(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load entities")
	}
	deps, err := s.deps.ListAll(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load dependencies")
	}
	return items, deps, nil
}
