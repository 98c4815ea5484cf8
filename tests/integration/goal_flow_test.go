package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pursuit-backend/application/commands"
	"pursuit-backend/application/commands/bus"
	"pursuit-backend/application/queries"
	querybus "pursuit-backend/application/queries/bus"
	queryhandlers "pursuit-backend/application/queries/handlers"
	domainservices "pursuit-backend/domain/services"
	"pursuit-backend/infrastructure/config"
	"pursuit-backend/infrastructure/di"
	"pursuit-backend/infrastructure/persistence/memory"
	"pursuit-backend/pkg/errors"
)

// setupBuses wires the full command/query stack over in-memory stores
func setupBuses(t *testing.T) (*di.Repositories, *bus.CommandBus, *querybus.QueryBus) {
	t.Helper()

	repos := &di.Repositories{
		Goals:    memory.NewGoalStore(),
		Progress: memory.NewProgressStore(),
		Deps:     memory.NewDependencyStore(),
		Metrics:  memory.NewMetricsStore(),
	}
	logger := zap.NewNop()

	commandBus, err := di.ProvideCommandBus(repos, logger)
	require.NoError(t, err)

	cfg := &config.Config{QueryCacheTTL: 1, PersistenceDriver: "memory"}
	analytics := di.ProvideAnalyticsService(repos, nil, logger)
	queryBus, err := di.ProvideQueryBus(repos, analytics, di.ProvideCache(), nil, cfg)
	require.NoError(t, err)

	return repos, commandBus, queryBus
}

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	_, commandBus, queryBus := setupBuses(t)

	// Create a goal
	createGoal := &commands.CreateGoalCommand{
		Kind:     "goal",
		Title:    "Ship the rewrite",
		Priority: 5,
	}
	require.NoError(t, commandBus.Send(ctx, createGoal))
	require.NotEmpty(t, createGoal.EntityID)

	// Attach a milestone
	createMilestone := &commands.CreateGoalCommand{
		Kind:   "milestone",
		Title:  "Migrate the data layer",
		GoalID: createGoal.EntityID,
	}
	require.NoError(t, commandBus.Send(ctx, createMilestone))

	// Record progress on the goal
	require.NoError(t, commandBus.Send(ctx, &commands.RecordProgressCommand{
		EntityID:   createGoal.EntityID,
		Percentage: 40,
	}))

	// Read it back
	result, err := queryBus.Ask(ctx, &queries.GetGoalQuery{EntityID: createGoal.EntityID})
	require.NoError(t, err)

	view, ok := result.(*queryhandlers.GoalView)
	require.True(t, ok)
	assert.Equal(t, "Ship the rewrite", view.Entity.Title)
	assert.Equal(t, 40.0, view.Entity.Progress)
	require.Len(t, view.Milestones, 1)
	assert.Equal(t, createMilestone.EntityID, view.Milestones[0].ID)
	require.Len(t, view.Progress, 1)
	assert.Equal(t, 40.0, view.Progress[0].Percentage)
}

func TestCyclePreCheckRejectsCircularChain(t *testing.T) {
	ctx := context.Background()
	_, commandBus, _ := setupBuses(t)

	a := &commands.CreateGoalCommand{Kind: "goal", Title: "a"}
	b := &commands.CreateGoalCommand{Kind: "goal", Title: "b"}
	require.NoError(t, commandBus.Send(ctx, a))
	require.NoError(t, commandBus.Send(ctx, b))

	require.NoError(t, commandBus.Send(ctx, &commands.CreateDependencyCommand{
		SourceID: a.EntityID,
		TargetID: b.EntityID,
		Type:     "blocks",
	}))

	// The reverse edge would close a cycle
	err := commandBus.Send(ctx, &commands.CreateDependencyCommand{
		SourceID: b.EntityID,
		TargetID: a.EntityID,
		Type:     "blocks",
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestValidationReportAfterWrites(t *testing.T) {
	ctx := context.Background()
	_, commandBus, queryBus := setupBuses(t)

	blocked := &commands.CreateGoalCommand{Kind: "goal", Title: "blocked"}
	blocker := &commands.CreateGoalCommand{Kind: "goal", Title: "blocker"}
	require.NoError(t, commandBus.Send(ctx, blocked))
	require.NoError(t, commandBus.Send(ctx, blocker))

	require.NoError(t, commandBus.Send(ctx, &commands.CreateDependencyCommand{
		SourceID: blocked.EntityID,
		TargetID: blocker.EntityID,
		Type:     "blocks",
	}))

	result, err := queryBus.Ask(ctx, &queries.ValidateDependenciesQuery{})
	require.NoError(t, err)

	report, ok := result.(domainservices.ValidationReport)
	require.True(t, ok)
	assert.True(t, report.IsValid)
	require.Len(t, report.BlockedItems, 1)
	assert.Equal(t, blocked.EntityID, report.BlockedItems[0].ItemID)
}

func TestVelocityQueryOverRecordedProgress(t *testing.T) {
	ctx := context.Background()
	_, commandBus, queryBus := setupBuses(t)

	goal := &commands.CreateGoalCommand{Kind: "goal", Title: "steady"}
	require.NoError(t, commandBus.Send(ctx, goal))
	require.NoError(t, commandBus.Send(ctx, &commands.RecordProgressCommand{
		EntityID:   goal.EntityID,
		Percentage: 25,
	}))

	result, err := queryBus.Ask(ctx, &queries.GetVelocityQuery{EntityID: goal.EntityID})
	require.NoError(t, err)

	velocity, ok := result.(domainservices.VelocityResult)
	require.True(t, ok)
	// Created moments ago, so the whole history fits in one active day
	assert.InDelta(t, 25.0, velocity.ProgressPerDay, 0.01)
	assert.NotNil(t, velocity.LastActiveDate)
	assert.WithinDuration(t, time.Now(), *velocity.LastActiveDate, time.Minute)
}
