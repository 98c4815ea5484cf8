package services

import (
	"fmt"
	"time"

	"pursuit-backend/domain/config"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/utils"
)

// SimulationChanges holds the hypothetical overrides for a what-if query.
// Nil fields mean "leave as is".
type SimulationChanges struct {
	NewProgress          *float64   `json:"newProgress,omitempty"`
	NewTargetDate        *time.Time `json:"newTargetDate,omitempty"`
	PriorityDelta        *int       `json:"priorityDelta,omitempty"`
	RemovedDependencyIDs []string   `json:"removedDependencyIds,omitempty"`
}

// SimulationResult compares the baseline prediction with the prediction
// under the requested overrides
type SimulationResult struct {
	OriginalProbability  int      `json:"originalProbability"`
	SimulatedProbability int      `json:"simulatedProbability"`
	WorkloadChange       float64  `json:"workloadChange"`
	TimelineChange       int      `json:"timelineChange"`
	Recommendations      []string `json:"recommendations"`
}

// SimulationService answers what-if queries by rerunning the probability
// model against a modified copy of the entity. The caller's snapshot is
// never touched.
type SimulationService struct {
	cfg        config.Source
	prediction *PredictionService
}

// NewSimulationService creates a new simulation service
func NewSimulationService(cfg config.Source, prediction *PredictionService) *SimulationService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if prediction == nil {
		prediction = NewPredictionService(cfg, nil)
	}
	return &SimulationService{cfg: cfg, prediction: prediction}
}

// SimulateChanges computes the baseline prediction, applies the overrides
// to a clone, recomputes with blocking signals filtered of any removed
// dependencies, and derives workload and timeline deltas plus advisory
// recommendation text.
func (s *SimulationService) SimulateChanges(
	entity *entities.Entity,
	milestones []*entities.Entity,
	updates []*entities.ProgressUpdate,
	signals []BlockingSignal,
	historicalRate float64,
	changes SimulationChanges,
	now time.Time,
) SimulationResult {
	cfg := s.cfg.Current()
	baseline := s.prediction.PredictCompletionProbability(entity, milestones, updates, signals, historicalRate, now)

	modified := entity.Clone()
	if changes.NewProgress != nil {
		modified.Progress = utils.Clamp(*changes.NewProgress, 0, 100)
	}
	if changes.NewTargetDate != nil {
		t := *changes.NewTargetDate
		modified.TargetDate = &t
	}
	if changes.PriorityDelta != nil {
		modified.Priority += *changes.PriorityDelta
	}

	remainingSignals := signals
	if len(changes.RemovedDependencyIDs) > 0 {
		removed := make(map[string]bool, len(changes.RemovedDependencyIDs))
		for _, id := range changes.RemovedDependencyIDs {
			removed[id] = true
		}
		remainingSignals = make([]BlockingSignal, 0, len(signals))
		for _, sig := range signals {
			if !removed[sig.DependencyID] {
				remainingSignals = append(remainingSignals, sig)
			}
		}
	}

	simulated := s.prediction.PredictCompletionProbability(modified, milestones, updates, remainingSignals, historicalRate, now)

	result := SimulationResult{
		OriginalProbability:  baseline.Probability,
		SimulatedProbability: simulated.Probability,
		Recommendations:      []string{},
	}

	if changes.PriorityDelta != nil {
		result.WorkloadChange = float64(*changes.PriorityDelta) * cfg.WorkloadPercentPerPriority
	}
	if changes.NewTargetDate != nil && entity.TargetDate != nil {
		if changes.NewTargetDate.After(*entity.TargetDate) {
			result.TimelineChange = utils.DaysBetween(*entity.TargetDate, *changes.NewTargetDate)
		} else {
			result.TimelineChange = -utils.DaysBetween(*changes.NewTargetDate, *entity.TargetDate)
		}
	}

	delta := float64(simulated.Probability - baseline.Probability)
	switch {
	case delta >= cfg.ProbabilityShiftThreshold:
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("these changes raise completion probability by %d points", simulated.Probability-baseline.Probability))
	case delta <= -cfg.ProbabilityShiftThreshold:
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("these changes lower completion probability by %d points", baseline.Probability-simulated.Probability))
	}
	if result.TimelineChange > cfg.TimelineExtensionDays {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("extending the deadline by %d days may reduce urgency", result.TimelineChange))
	}

	return result
}
