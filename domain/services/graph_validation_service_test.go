package services_test

import (
	"testing"
	"time"

	"pursuit-backend/domain/core/aggregates"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/core/valueobjects"
	"pursuit-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCycle_EmptyGraph(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(nil, nil)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectCycle(graph)

	// Assert
	assert.False(t, result.HasCycle)
	assert.Empty(t, result.CyclePath)
}

func TestDetectCycle_NoEdges(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		nil,
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectCycle(graph)

	// Assert
	assert.False(t, result.HasCycle)
}

func TestDetectCycle_SelfLoop(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a")},
		[]*entities.Dependency{blockingDep("a", "a")},
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectCycle(graph)

	// Assert
	assert.True(t, result.HasCycle)
	assert.Equal(t, []string{"a", "a"}, result.CyclePath)
}

func TestDetectCycle_ThreeNodeCycle(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "c"),
			blockingDep("c", "a"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectCycle(graph)

	// Assert
	require.True(t, result.HasCycle)
	assert.Contains(t, result.CyclePath, "a")
	assert.Contains(t, result.CyclePath, "b")
	assert.Contains(t, result.CyclePath, "c")
	// The path closes on the node it started from
	assert.Equal(t, result.CyclePath[0], result.CyclePath[len(result.CyclePath)-1])
}

func TestDetectCycle_SoftDependenciesIgnored(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			softDep("b", "a"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectCycle(graph)

	// Assert
	assert.False(t, result.HasCycle)
}

func TestWouldCreateCycle(t *testing.T) {
	// Arrange: a -> b -> c, no edge closing the loop yet
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "c"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act & Assert
	assert.True(t, svc.WouldCreateCycle(graph, "c", "a"), "c -> a closes the loop")
	assert.False(t, svc.WouldCreateCycle(graph, "a", "c"), "a -> c is a shortcut, not a cycle")
	assert.True(t, svc.WouldCreateCycle(graph, "a", "a"), "self edge is always a cycle")
}

func TestDetectDeadlocks_MutualBlocking(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "a"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectDeadlocks(graph)

	// Assert
	assert.True(t, result.HasDeadlock)
	assert.ElementsMatch(t, []string{"a", "b"}, result.DeadlockedIDs)
}

func TestDetectDeadlocks_CompletedBlockerBreaksDeadlock(t *testing.T) {
	// Arrange
	completed := activeGoal("b")
	completed.State = valueobjects.StateCompleted
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), completed},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "a"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectDeadlocks(graph)

	// Assert
	assert.False(t, result.HasDeadlock)
	assert.Empty(t, result.DeadlockedIDs)
}

func TestDetectDeadlocks_TransitiveCycle(t *testing.T) {
	// Arrange: a blocks on b, b on c, c back on a
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "c"),
			blockingDep("c", "a"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	result := svc.DetectDeadlocks(graph)

	// Assert
	assert.True(t, result.HasDeadlock)
	assert.Contains(t, result.DeadlockedIDs, "a")
}

func TestAnalyzeBlockedItems(t *testing.T) {
	// Arrange
	done := activeGoal("done")
	done.State = valueobjects.StateCompleted
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("g1"), activeGoal("g2"), done},
		[]*entities.Dependency{
			blockingDep("g1", "g2"),
			blockingDep("g1", "done"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	blocked := svc.AnalyzeBlockedItems(graph)

	// Assert: completed blockers are filtered out of the one-hop view
	require.Len(t, blocked, 1)
	assert.Equal(t, "g1", blocked[0].ItemID)
	require.Len(t, blocked[0].BlockedBy, 1)
	assert.Equal(t, "g2", blocked[0].BlockedBy[0].ID)
}

func TestDetectCascadingDelays_MinimumDepthWins(t *testing.T) {
	// Arrange: b depends on a, c depends on both b and a, so c is
	// reachable from a at depth 1 and depth 2
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		[]*entities.Dependency{
			blockingDep("b", "a"),
			blockingDep("c", "b"),
			blockingDep("c", "a"),
		},
	)
	svc := services.NewGraphValidationService()

	// Act
	delays := svc.DetectCascadingDelays(graph)

	// Assert
	var fromA *services.CascadingDelay
	for i := range delays {
		if delays[i].SourceID == "a" {
			fromA = &delays[i]
		}
	}
	require.NotNil(t, fromA)

	depths := make(map[string]int)
	for _, item := range fromA.AffectedItems {
		depths[item.ID] = item.DelayPropagation
	}
	assert.Equal(t, 1, depths["b"])
	assert.Equal(t, 1, depths["c"], "shallower path wins")
}

func TestDetectCascadingDelays_CompletedSourceSkipped(t *testing.T) {
	// Arrange
	done := activeGoal("a")
	done.State = valueobjects.StateCompleted
	graph := aggregates.BuildGraph(
		[]*entities.Entity{done, activeGoal("b")},
		[]*entities.Dependency{blockingDep("b", "a")},
	)
	svc := services.NewGraphValidationService()

	// Act
	delays := svc.DetectCascadingDelays(graph)

	// Assert
	assert.Empty(t, delays)
}

func TestValidateDependencies_EndToEnd(t *testing.T) {
	// Arrange
	g1 := activeGoal("g1")
	g2 := activeGoal("g2")
	svc := services.NewGraphValidationService()

	// Act
	report := svc.ValidateDependencies(
		[]*entities.Entity{g1, g2},
		nil,
		[]*entities.Dependency{blockingDep("g1", "g2")},
	)

	// Assert
	assert.True(t, report.IsValid)
	assert.False(t, report.HasCircularDependency)
	assert.False(t, report.HasDeadlock)
	require.Len(t, report.BlockedItems, 1)
	assert.Equal(t, "g1", report.BlockedItems[0].ItemID)
	require.Len(t, report.BlockedItems[0].BlockedBy, 1)
	assert.Equal(t, "g2", report.BlockedItems[0].BlockedBy[0].ID)
}

func TestValidateDependencies_CycleInvalidatesGraph(t *testing.T) {
	// Arrange
	svc := services.NewGraphValidationService()

	// Act
	report := svc.ValidateDependencies(
		[]*entities.Entity{activeGoal("a"), activeGoal("b")},
		nil,
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "a"),
		},
	)

	// Assert
	assert.False(t, report.IsValid)
	assert.True(t, report.HasCircularDependency)
	assert.True(t, report.HasDeadlock)
	assert.NotEmpty(t, report.Diagnostics)
}

func TestValidateDependencies_DanglingEdgeIgnored(t *testing.T) {
	// Arrange
	svc := services.NewGraphValidationService()

	// Act
	report := svc.ValidateDependencies(
		[]*entities.Entity{activeGoal("a")},
		nil,
		[]*entities.Dependency{blockingDep("a", "ghost")},
	)

	// Assert
	assert.True(t, report.IsValid)
	assert.Empty(t, report.BlockedItems)
}

// Helpers

func activeGoal(id string) *entities.Entity {
	return &entities.Entity{
		ID:        id,
		Kind:      entities.KindGoal,
		State:     valueobjects.StateActive,
		Title:     "Goal " + id,
		Priority:  1,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func blockingDep(source, target string) *entities.Dependency {
	return &entities.Dependency{
		ID:       source + "->" + target,
		SourceID: source,
		TargetID: target,
		Type:     valueobjects.DependencyBlocks,
	}
}

func softDep(source, target string) *entities.Dependency {
	return &entities.Dependency{
		ID:       source + "~>" + target,
		SourceID: source,
		TargetID: target,
		Type:     valueobjects.DependencySoft,
	}
}
