package config

// DomainConfig holds the tunable business rules behind velocity estimation
// and completion-probability scoring. The defaults mirror the calibrated
// heuristic; overrides come from the threshold file watcher.
type DomainConfig struct {
	// Velocity estimation
	GapThresholdDays        int     `yaml:"gap_threshold_days"`
	StagnationThresholdDays int     `yaml:"stagnation_threshold_days"`
	TrendMinUpdates         int     `yaml:"trend_min_updates"`
	TrendDeltaPerDay        float64 `yaml:"trend_delta_per_day"`

	// Probability scoring
	ProgressSeedWeight    float64 `yaml:"progress_seed_weight"`
	AcceleratingBonus     float64 `yaml:"accelerating_bonus"`
	StagnantPenalty       float64 `yaml:"stagnant_penalty"`
	DeceleratingPenalty   float64 `yaml:"decelerating_penalty"`
	BlockingPenalty       float64 `yaml:"blocking_penalty"`
	MilestoneWeight       float64 `yaml:"milestone_weight"`
	MilestoneStrongRatio  float64 `yaml:"milestone_strong_ratio"`
	HistoricalBlendWeight float64 `yaml:"historical_blend_weight"`
	OnTrackBonus          float64 `yaml:"on_track_bonus"`
	AtRiskPenalty         float64 `yaml:"at_risk_penalty"`
	PastDeadlinePenalty   float64 `yaml:"past_deadline_penalty"`
	OnTrackVelocityRatio  float64 `yaml:"on_track_velocity_ratio"`
	AtRiskVelocityRatio   float64 `yaml:"at_risk_velocity_ratio"`

	// Confidence thresholds (progress updates + milestones)
	HighConfidencePoints   int `yaml:"high_confidence_points"`
	MediumConfidencePoints int `yaml:"medium_confidence_points"`

	// Simulation
	WorkloadPercentPerPriority float64 `yaml:"workload_percent_per_priority"`
	TimelineExtensionDays      int     `yaml:"timeline_extension_days"`
	ProbabilityShiftThreshold  float64 `yaml:"probability_shift_threshold"`
}

// Source supplies the active threshold configuration. Implementations
// may swap the returned pointer between calls; the engines snapshot it
// once per computation so a reload never changes values mid-calculation.
type Source interface {
	Current() *DomainConfig
}

// Current lets a plain DomainConfig serve as its own static Source
func (c *DomainConfig) Current() *DomainConfig {
	return c
}

// DefaultDomainConfig returns the default heuristic configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		GapThresholdDays:        14,
		StagnationThresholdDays: 7,
		TrendMinUpdates:         3,
		TrendDeltaPerDay:        1.0,

		ProgressSeedWeight:    0.5,
		AcceleratingBonus:     15,
		StagnantPenalty:       20,
		DeceleratingPenalty:   10,
		BlockingPenalty:       10,
		MilestoneWeight:       20,
		MilestoneStrongRatio:  0.7,
		HistoricalBlendWeight: 0.3,
		OnTrackBonus:          10,
		AtRiskPenalty:         15,
		PastDeadlinePenalty:   20,
		OnTrackVelocityRatio:  1.2,
		AtRiskVelocityRatio:   0.5,

		HighConfidencePoints:   10,
		MediumConfidencePoints: 5,

		WorkloadPercentPerPriority: 10,
		TimelineExtensionDays:      14,
		ProbabilityShiftThreshold:  10,
	}
}

// Normalize clamps values that would break scoring back to safe defaults
func (c *DomainConfig) Normalize() {
	if c.GapThresholdDays < 1 {
		c.GapThresholdDays = 1
	}
	if c.StagnationThresholdDays < 1 {
		c.StagnationThresholdDays = 1
	}
	if c.TrendMinUpdates < 2 {
		c.TrendMinUpdates = 2
	}
	if c.HistoricalBlendWeight < 0 || c.HistoricalBlendWeight > 1 {
		c.HistoricalBlendWeight = 0.3
	}
}
