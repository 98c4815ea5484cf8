package services

import (
	"fmt"
	"math"
	"time"

	"pursuit-backend/domain/config"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/utils"
)

// Confidence is a coarse label for how much history backs a prediction,
// not a statistical interval
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// BlockingSignal is one currently-blocking dependency sourced from the
// entity under prediction. The graph engine derives these; the analytics
// engine only counts and names them.
type BlockingSignal struct {
	DependencyID string `json:"dependencyId"`
	BlockerID    string `json:"blockerId"`
	BlockerTitle string `json:"blockerTitle"`
}

// PredictionResult is the completion-probability estimate for one entity
type PredictionResult struct {
	Probability             int        `json:"probability"`
	Confidence              Confidence `json:"confidence"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
	RiskFactors             []string   `json:"riskFactors"`
	PositiveFactors         []string   `json:"positiveFactors"`
}

// PredictionService scores completion probability with an additive
// heuristic over velocity trend, blocking dependencies, milestone
// progress, historical base rate, and deadline proximity.
type PredictionService struct {
	cfg      config.Source
	velocity *VelocityService
}

// NewPredictionService creates a new prediction service
func NewPredictionService(cfg config.Source, velocity *VelocityService) *PredictionService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if velocity == nil {
		velocity = NewVelocityService(cfg)
	}
	return &PredictionService{cfg: cfg, velocity: velocity}
}

// PredictCompletionProbability scores the entity's chance of completion.
// The running probability seeds from current progress, then each factor
// adds, subtracts, or blends in. The result is clamped to [0, 100] and
// rounded to the nearest integer.
func (s *PredictionService) PredictCompletionProbability(
	entity *entities.Entity,
	milestones []*entities.Entity,
	updates []*entities.ProgressUpdate,
	signals []BlockingSignal,
	historicalRate float64,
	now time.Time,
) PredictionResult {
	cfg := s.cfg.Current()
	result := PredictionResult{
		RiskFactors:     []string{},
		PositiveFactors: []string{},
	}

	vel := s.velocity.ComputeVelocity(entity.ID, updates, entity.CreatedAt, now)
	probability := entity.Progress * cfg.ProgressSeedWeight

	switch vel.AccelerationTrend {
	case TrendAccelerating:
		probability += cfg.AcceleratingBonus
		result.PositiveFactors = append(result.PositiveFactors, "progress is accelerating")
	case TrendStagnant:
		probability -= cfg.StagnantPenalty
		result.RiskFactors = append(result.RiskFactors,
			fmt.Sprintf("no progress recorded for %d days", vel.StagnationDays))
	case TrendDecelerating:
		probability -= cfg.DeceleratingPenalty
		result.RiskFactors = append(result.RiskFactors, "progress is slowing down")
	}

	if len(signals) > 0 {
		probability -= float64(len(signals)) * cfg.BlockingPenalty
		result.RiskFactors = append(result.RiskFactors,
			fmt.Sprintf("blocked by %d incomplete dependencies", len(signals)))
	}

	if len(milestones) > 0 {
		completed := 0
		for _, m := range milestones {
			if m != nil && m.IsCompleted() {
				completed++
			}
		}
		ratio := float64(completed) / float64(len(milestones))
		probability += ratio * cfg.MilestoneWeight
		if ratio > cfg.MilestoneStrongRatio {
			result.PositiveFactors = append(result.PositiveFactors,
				fmt.Sprintf("%d of %d milestones completed", completed, len(milestones)))
		}
	}

	probability = probability*(1-cfg.HistoricalBlendWeight) + historicalRate*cfg.HistoricalBlendWeight

	if entity.TargetDate != nil {
		if entity.TargetDate.After(now) {
			daysRemaining := utils.DaysBetweenAtLeastOne(now, *entity.TargetDate)
			requiredVelocity := entity.RemainingProgress() / float64(daysRemaining)
			switch {
			case vel.ProgressPerDay >= requiredVelocity*cfg.OnTrackVelocityRatio:
				probability += cfg.OnTrackBonus
				result.PositiveFactors = append(result.PositiveFactors, "current pace is ahead of the deadline")
			case vel.ProgressPerDay < requiredVelocity*cfg.AtRiskVelocityRatio:
				probability -= cfg.AtRiskPenalty
				result.RiskFactors = append(result.RiskFactors, "current pace is well behind the deadline")
			}
		} else {
			probability -= cfg.PastDeadlinePenalty
			result.RiskFactors = append(result.RiskFactors, "target date has already passed")
		}
	}

	if entity.Progress < 100 && vel.ProgressPerDay > 0 {
		daysToComplete := int(math.Ceil(entity.RemainingProgress() / vel.ProgressPerDay))
		estimated := now.AddDate(0, 0, daysToComplete)
		result.EstimatedCompletionDate = &estimated
	}

	dataPoints := len(entities.FilterUpdates(updates, entity.ID)) + len(milestones)
	switch {
	case dataPoints >= cfg.HighConfidencePoints && vel.AccelerationTrend != TrendStagnant:
		result.Confidence = ConfidenceHigh
	case dataPoints >= cfg.MediumConfidencePoints:
		result.Confidence = ConfidenceMedium
	default:
		result.Confidence = ConfidenceLow
	}

	result.Probability = int(math.Round(utils.Clamp(probability, 0, 100)))
	return result
}
