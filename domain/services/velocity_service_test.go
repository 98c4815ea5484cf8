package services_test

import (
	"testing"
	"time"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var velocityNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestComputeVelocity_NoUpdates(t *testing.T) {
	// Arrange
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -20)

	// Act
	result := svc.ComputeVelocity("g1", nil, createdAt, velocityNow)

	// Assert
	assert.Equal(t, float64(0), result.ProgressPerDay)
	assert.Equal(t, float64(0), result.ProgressPerWeek)
	assert.Equal(t, services.TrendStagnant, result.AccelerationTrend)
	assert.Equal(t, 20, result.StagnationDays)
	assert.Nil(t, result.LastActiveDate)
}

func TestComputeVelocity_Idempotent(t *testing.T) {
	// Arrange
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -10)
	updates := []*entities.ProgressUpdate{
		update("g1", 20, createdAt.AddDate(0, 0, 2)),
		update("g1", 55, createdAt.AddDate(0, 0, 6)),
		update("g1", 80, createdAt.AddDate(0, 0, 10)),
	}

	// Act
	first := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)
	second := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	assert.Equal(t, first, second)
}

func TestComputeVelocity_GapFiltering(t *testing.T) {
	// Arrange: two updates 30 days apart, 0% then 100%. The 16 days
	// beyond the 14-day threshold are discounted from active time.
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -30)
	updates := []*entities.ProgressUpdate{
		update("g1", 0, createdAt),
		update("g1", 100, velocityNow),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	naive := 100.0 / 30.0
	assert.Greater(t, result.ProgressPerDay, naive)
	assert.InDelta(t, 100.0/14.0, result.ProgressPerDay, 0.01)
}

func TestComputeVelocity_StagnationOverridesTrend(t *testing.T) {
	// Arrange: healthy history, but the last update is 10 days old
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -30)
	updates := []*entities.ProgressUpdate{
		update("g1", 10, createdAt.AddDate(0, 0, 5)),
		update("g1", 40, createdAt.AddDate(0, 0, 12)),
		update("g1", 70, createdAt.AddDate(0, 0, 20)),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	assert.Equal(t, services.TrendStagnant, result.AccelerationTrend)
	assert.Equal(t, 10, result.StagnationDays)
}

func TestComputeVelocity_Accelerating(t *testing.T) {
	// Arrange: second half moves much faster than the first
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -12)
	updates := []*entities.ProgressUpdate{
		update("g1", 0, createdAt),
		update("g1", 5, createdAt.AddDate(0, 0, 4)),
		update("g1", 40, createdAt.AddDate(0, 0, 8)),
		update("g1", 80, velocityNow),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	assert.Equal(t, services.TrendAccelerating, result.AccelerationTrend)
}

func TestComputeVelocity_Decelerating(t *testing.T) {
	// Arrange: fast start, then a crawl
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -12)
	updates := []*entities.ProgressUpdate{
		update("g1", 0, createdAt),
		update("g1", 40, createdAt.AddDate(0, 0, 4)),
		update("g1", 42, createdAt.AddDate(0, 0, 8)),
		update("g1", 44, velocityNow),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	assert.Equal(t, services.TrendDecelerating, result.AccelerationTrend)
}

func TestComputeVelocity_FewUpdatesDefaultStable(t *testing.T) {
	// Arrange
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -5)
	updates := []*entities.ProgressUpdate{
		update("g1", 30, createdAt.AddDate(0, 0, 2)),
		update("g1", 50, velocityNow),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	assert.Equal(t, services.TrendStable, result.AccelerationTrend)
}

func TestComputeVelocity_OtherEntitiesFiltered(t *testing.T) {
	// Arrange
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -10)
	updates := []*entities.ProgressUpdate{
		update("other", 90, velocityNow),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	assert.Equal(t, services.TrendStagnant, result.AccelerationTrend)
	assert.Equal(t, float64(0), result.ProgressPerDay)
}

func TestComputeVelocity_PerWeekIsSevenTimesPerDay(t *testing.T) {
	// Arrange
	svc := services.NewVelocityService(nil)
	createdAt := velocityNow.AddDate(0, 0, -10)
	updates := []*entities.ProgressUpdate{
		update("g1", 50, velocityNow),
	}

	// Act
	result := svc.ComputeVelocity("g1", updates, createdAt, velocityNow)

	// Assert
	require.Equal(t, 5.0, result.ProgressPerDay)
	assert.Equal(t, 35.0, result.ProgressPerWeek)
}

// Helpers

func update(entityID string, pct float64, at time.Time) *entities.ProgressUpdate {
	return &entities.ProgressUpdate{
		ID:         entityID + "-" + at.Format("20060102"),
		EntityID:   entityID,
		Percentage: pct,
		CreatedAt:  at,
	}
}
