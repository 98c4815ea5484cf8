package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainconfig "pursuit-backend/domain/config"
	"pursuit-backend/domain/core/entities"
	domainservices "pursuit-backend/domain/services"
	"pursuit-backend/infrastructure/config"
)

func writeThresholds(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func awaitReload(t *testing.T, changed <-chan *domainconfig.DomainConfig) *domainconfig.DomainConfig {
	t.Helper()
	select {
	case cfg := <-changed:
		return cfg
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for thresholds reload")
		return nil
	}
}

func TestThresholdsWatcher_EmptyPathServesDefaults(t *testing.T) {
	// Arrange
	watcher, err := config.NewThresholdsWatcher("", zap.NewNop())
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	// Assert
	assert.Equal(t, domainconfig.DefaultDomainConfig(), watcher.Current())
}

func TestThresholdsWatcher_ReloadSwapsCurrent(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	writeThresholds(t, path, "stagnation_threshold_days: 7\n")

	watcher, err := config.NewThresholdsWatcher(path, zap.NewNop())
	require.NoError(t, err)

	changed := make(chan *domainconfig.DomainConfig, 1)
	watcher.OnChange(func(cfg *domainconfig.DomainConfig) {
		select {
		case changed <- cfg:
		default:
		}
	})
	watcher.Start()
	defer watcher.Stop()

	require.Equal(t, 7, watcher.Current().StagnationThresholdDays)

	// Act
	writeThresholds(t, path, "stagnation_threshold_days: 21\n")
	reloaded := awaitReload(t, changed)

	// Assert
	assert.Equal(t, 21, reloaded.StagnationThresholdDays)
	assert.Equal(t, 21, watcher.Current().StagnationThresholdDays)
}

func TestThresholdsWatcher_ReloadVisibleToRunningService(t *testing.T) {
	// Arrange: one update ten days back, so the entity reads as stagnant
	// under the initial 7-day threshold
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	writeThresholds(t, path, "stagnation_threshold_days: 7\n")

	watcher, err := config.NewThresholdsWatcher(path, zap.NewNop())
	require.NoError(t, err)

	changed := make(chan *domainconfig.DomainConfig, 1)
	watcher.OnChange(func(cfg *domainconfig.DomainConfig) {
		select {
		case changed <- cfg:
		default:
		}
	})
	watcher.Start()
	defer watcher.Stop()

	svc := domainservices.NewVelocityService(watcher)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.AddDate(0, 0, -12)
	updates := []*entities.ProgressUpdate{{
		ID:         "u1",
		EntityID:   "g1",
		Percentage: 40,
		CreatedAt:  now.AddDate(0, 0, -10),
	}}

	require.Equal(t, domainservices.TrendStagnant,
		svc.ComputeVelocity("g1", updates, createdAt, now).AccelerationTrend)

	// Readers keep computing while the file is rewritten underneath them
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					svc.ComputeVelocity("g1", updates, createdAt, now)
				}
			}
		}()
	}

	// Act: raise the threshold past the ten-day idle window
	writeThresholds(t, path, "stagnation_threshold_days: 30\n")
	awaitReload(t, changed)
	close(done)
	wg.Wait()

	// Assert: the running service sees the reloaded threshold
	result := svc.ComputeVelocity("g1", updates, createdAt, now)
	assert.NotEqual(t, domainservices.TrendStagnant, result.AccelerationTrend)
}

func TestThresholdsWatcher_InvalidFileKeepsCurrent(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	writeThresholds(t, path, "gap_threshold_days: 10\n")

	watcher, err := config.NewThresholdsWatcher(path, zap.NewNop())
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	require.Equal(t, 10, watcher.Current().GapThresholdDays)

	// Act: a broken edit must not poison the active values
	writeThresholds(t, path, "gap_threshold_days: [not a number\n")
	time.Sleep(500 * time.Millisecond)

	// Assert
	assert.Equal(t, 10, watcher.Current().GapThresholdDays)
}
