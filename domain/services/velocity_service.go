package services

import (
	"time"

	"pursuit-backend/domain/config"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/utils"
)

// Trend classifies the direction of an entity's recent progress
type Trend string

const (
	TrendAccelerating Trend = "accelerating"
	TrendDecelerating Trend = "decelerating"
	TrendStable       Trend = "stable"
	TrendStagnant     Trend = "stagnant"
)

// VelocityResult is the computed progress rate for one entity
type VelocityResult struct {
	ProgressPerDay    float64    `json:"progressPerDay"`
	ProgressPerWeek   float64    `json:"progressPerWeek"`
	AccelerationTrend Trend      `json:"accelerationTrend"`
	LastActiveDate    *time.Time `json:"lastActiveDate,omitempty"`
	StagnationDays    int        `json:"stagnationDays"`
}

// VelocityService estimates progress rate and trend from an entity's
// update history. Long idle gaps are discounted so velocity reflects
// active effort, not calendar time.
type VelocityService struct {
	cfg config.Source
}

// NewVelocityService creates a new velocity service
func NewVelocityService(cfg config.Source) *VelocityService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &VelocityService{cfg: cfg}
}

// ComputeVelocity derives the progress rate for entityID from its update
// history. The caller supplies now once; all day arithmetic inside one
// call uses that single snapshot. Pure: identical inputs yield identical
// results.
func (s *VelocityService) ComputeVelocity(entityID string, updates []*entities.ProgressUpdate, createdAt, now time.Time) VelocityResult {
	cfg := s.cfg.Current()
	history := entities.FilterUpdates(updates, entityID)
	totalDays := utils.DaysBetweenAtLeastOne(createdAt, now)

	if len(history) == 0 {
		return VelocityResult{
			ProgressPerDay:    0,
			ProgressPerWeek:   0,
			AccelerationTrend: TrendStagnant,
			StagnationDays:    totalDays,
		}
	}

	last := history[len(history)-1]
	lastActive := last.CreatedAt
	stagnationDays := utils.DaysBetween(last.CreatedAt, now)

	// Gaps beyond the threshold only contribute their excess: a 20-day
	// gap against a 14-day threshold adds 6 idle days, not 20. The gap
	// between the last update and now is treated the same way.
	excessDays := 0
	for i := 1; i < len(history); i++ {
		gap := utils.DaysBetween(history[i-1].CreatedAt, history[i].CreatedAt)
		if gap > cfg.GapThresholdDays {
			excessDays += gap - cfg.GapThresholdDays
		}
	}
	if stagnationDays > cfg.GapThresholdDays {
		excessDays += stagnationDays - cfg.GapThresholdDays
	}

	activeDays := totalDays - excessDays
	if activeDays < 1 {
		activeDays = 1
	}

	perDay := utils.Round2(last.Percentage / float64(activeDays))
	perWeek := utils.Round2(perDay * 7)

	return VelocityResult{
		ProgressPerDay:    perDay,
		ProgressPerWeek:   perWeek,
		AccelerationTrend: s.classifyTrend(cfg, history, stagnationDays),
		LastActiveDate:    &lastActive,
		StagnationDays:    stagnationDays,
	}
}

// classifyTrend splits the history at its midpoint and compares the two
// halves' own velocities. Stagnation overrides everything; short
// histories default to stable.
func (s *VelocityService) classifyTrend(cfg *config.DomainConfig, history []*entities.ProgressUpdate, stagnationDays int) Trend {
	if stagnationDays > cfg.StagnationThresholdDays {
		return TrendStagnant
	}
	if len(history) < cfg.TrendMinUpdates {
		return TrendStable
	}

	mid := len(history) / 2
	firstRate := s.halfVelocity(history[:mid])
	secondRate := s.halfVelocity(history[mid:])

	switch {
	case secondRate-firstRate > cfg.TrendDeltaPerDay:
		return TrendAccelerating
	case firstRate-secondRate > cfg.TrendDeltaPerDay:
		return TrendDecelerating
	default:
		return TrendStable
	}
}

// halfVelocity is progress delta over elapsed days for one half of the
// history, with the usual floor-of-one-day guard
func (s *VelocityService) halfVelocity(half []*entities.ProgressUpdate) float64 {
	if len(half) < 2 {
		return 0
	}
	first := half[0]
	last := half[len(half)-1]
	days := utils.DaysBetweenAtLeastOne(first.CreatedAt, last.CreatedAt)
	return (last.Percentage - first.Percentage) / float64(days)
}
