package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pursuit-backend/infrastructure/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Act
	cfg, err := config.LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "memory", cfg.PersistenceDriver)
	assert.Equal(t, "pursuit", cfg.DynamoDBTable)
	assert.Equal(t, "GSI1", cfg.IndexName)
	assert.Equal(t, 10*time.Second, cfg.WorkerTimeout)
}

func TestLoadConfig_IndexNameOverride(t *testing.T) {
	// Arrange
	t.Setenv("INDEX_NAME", "ByGoal")

	// Act
	cfg, err := config.LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ByGoal", cfg.IndexName)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	// Arrange
	t.Setenv("PERSISTENCE_DRIVER", "postgres")

	// Act
	_, err := config.LoadConfig()

	// Assert
	assert.Error(t, err)
}
