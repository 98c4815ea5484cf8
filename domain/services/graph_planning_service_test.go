package services_test

import (
	"testing"

	"pursuit-backend/domain/core/aggregates"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionOrder_DependenciesFirst(t *testing.T) {
	// Arrange: a depends on b, b depends on c
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "c"),
		},
	)
	svc := services.NewGraphPlanningService()

	// Act
	order := svc.ExecutionOrder(graph)

	// Assert
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestExecutionOrder_NoEdgesCoversAllNodesOnce(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		nil,
	)
	svc := services.NewGraphPlanningService()

	// Act
	order := svc.ExecutionOrder(graph)

	// Assert
	assert.ElementsMatch(t, []string{"a", "b", "c"}, order)
}

func TestExecutionOrder_CycleDoesNotCrash(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "a"),
		},
	)
	svc := services.NewGraphPlanningService()

	// Act
	order := svc.ExecutionOrder(graph)

	// Assert: best effort ordering, every node exactly once
	assert.ElementsMatch(t, []string{"a", "b"}, order)
}

func TestCriticalPath_IsolatedNodes(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b")},
		nil,
	)
	svc := services.NewGraphPlanningService()

	// Act
	result := svc.CriticalPath(graph)

	// Assert
	assert.Equal(t, 1, result.Length)
	assert.Len(t, result.Path, 1)
}

func TestCriticalPath_Chain(t *testing.T) {
	// Arrange: a -> b -> c
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "c"),
		},
	)
	svc := services.NewGraphPlanningService()

	// Act
	result := svc.CriticalPath(graph)

	// Assert
	assert.Equal(t, 3, result.Length)
	assert.Equal(t, []string{"a", "b", "c"}, result.Path)
}

func TestCriticalPath_ExtendingChainGrowsByOne(t *testing.T) {
	// Arrange
	nodes := []*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c"), activeGoal("d")}
	deps := []*entities.Dependency{
		blockingDep("a", "b"),
		blockingDep("b", "c"),
	}
	svc := services.NewGraphPlanningService()
	before := svc.CriticalPath(aggregates.BuildGraph(nodes, deps))

	// Act
	extended := append(deps, blockingDep("c", "d"))
	after := svc.CriticalPath(aggregates.BuildGraph(nodes, extended))

	// Assert
	assert.Equal(t, before.Length+1, after.Length)
}

func TestCriticalPath_SharedSubDependencies(t *testing.T) {
	// Arrange: diamond a -> {b, c} -> d, longest chain has 3 nodes
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b"), activeGoal("c"), activeGoal("d")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("a", "c"),
			blockingDep("b", "d"),
			blockingDep("c", "d"),
		},
	)
	svc := services.NewGraphPlanningService()

	// Act
	result := svc.CriticalPath(graph)

	// Assert
	require.Equal(t, 3, result.Length)
	assert.Equal(t, "a", result.Path[0])
	assert.Equal(t, "d", result.Path[2])
}

func TestCriticalPath_CycleTerminates(t *testing.T) {
	// Arrange
	graph := aggregates.BuildGraph(
		[]*entities.Entity{activeGoal("a"), activeGoal("b")},
		[]*entities.Dependency{
			blockingDep("a", "b"),
			blockingDep("b", "a"),
		},
	)
	svc := services.NewGraphPlanningService()

	// Act
	result := svc.CriticalPath(graph)

	// Assert: back edges are cut, the chain still counts both nodes
	assert.Equal(t, 2, result.Length)
}
