package memory_test

import (
	"context"
	"testing"
	"time"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/infrastructure/persistence/memory"
	"pursuit-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalStore_SaveAndGet(t *testing.T) {
	// Arrange
	store := memory.NewGoalStore()
	ctx := context.Background()
	goal := testEntity("g1", entities.KindGoal, "")

	// Act
	err := store.Save(ctx, goal)
	require.NoError(t, err)
	loaded, err := store.GetByID(ctx, "g1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, goal.Title, loaded.Title)

	// Reads are clones, mutating the result does not touch the store
	loaded.Progress = 99
	again, err := store.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), again.Progress)
}

func TestGoalStore_GetMissing(t *testing.T) {
	// Arrange
	store := memory.NewGoalStore()

	// Act
	_, err := store.GetByID(context.Background(), "nope")

	// Assert
	assert.True(t, errors.IsNotFound(err))
}

func TestGoalStore_ListMilestonesForGoal(t *testing.T) {
	// Arrange
	store := memory.NewGoalStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testEntity("g1", entities.KindGoal, "")))
	require.NoError(t, store.Save(ctx, testEntity("m1", entities.KindMilestone, "g1")))
	require.NoError(t, store.Save(ctx, testEntity("m2", entities.KindMilestone, "g1")))
	require.NoError(t, store.Save(ctx, testEntity("m3", entities.KindMilestone, "other")))

	// Act
	milestones, err := store.ListMilestones(ctx, "g1")

	// Assert
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.Equal(t, "m1", milestones[0].ID)
	assert.Equal(t, "m2", milestones[1].ID)
}

func TestGoalStore_Delete(t *testing.T) {
	// Arrange
	store := memory.NewGoalStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testEntity("g1", entities.KindGoal, "")))

	// Act
	err := store.Delete(ctx, "g1")

	// Assert
	require.NoError(t, err)
	_, err = store.GetByID(ctx, "g1")
	assert.True(t, errors.IsNotFound(err))
	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDependencyStore_ListBySource(t *testing.T) {
	// Arrange
	store := memory.NewDependencyStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testDependency("d1", "a", "b")))
	require.NoError(t, store.Save(ctx, testDependency("d2", "a", "c")))
	require.NoError(t, store.Save(ctx, testDependency("d3", "b", "c")))

	// Act
	fromA, err := store.ListBySource(ctx, "a")

	// Assert
	require.NoError(t, err)
	require.Len(t, fromA, 2)
	assert.Equal(t, "b", fromA[0].TargetID)
	assert.Equal(t, "c", fromA[1].TargetID)
}

func TestProgressStore_ListByEntity(t *testing.T) {
	// Arrange
	store := memory.NewProgressStore()
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, &entities.ProgressUpdate{ID: "u1", EntityID: "g1", Percentage: 10, CreatedAt: now}))
	require.NoError(t, store.Save(ctx, &entities.ProgressUpdate{ID: "u2", EntityID: "g2", Percentage: 20, CreatedAt: now}))
	require.NoError(t, store.Save(ctx, &entities.ProgressUpdate{ID: "u3", EntityID: "g1", Percentage: 30, CreatedAt: now.AddDate(0, 0, 1)}))

	// Act
	history, err := store.ListByEntity(ctx, "g1")

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, float64(10), history[0].Percentage)
	assert.Equal(t, float64(30), history[1].Percentage)
}

// Helpers

func testEntity(id string, kind entities.EntityKind, goalID string) *entities.Entity {
	return &entities.Entity{
		ID:        id,
		Kind:      kind,
		State:     valueobjects.StatePlanned,
		Title:     "Entity " + id,
		CreatedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		GoalID:    goalID,
	}
}

func testDependency(id, source, target string) *entities.Dependency {
	return &entities.Dependency{
		ID:       id,
		SourceID: source,
		TargetID: target,
		Type:     valueobjects.DependencyBlocks,
	}
}
