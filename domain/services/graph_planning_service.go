package services

import (
	"pursuit-backend/domain/core/aggregates"
)

// GraphPlanningService derives ordering information from a dependency
// graph snapshot: a topological execution order and the critical path.
type GraphPlanningService struct{}

// NewGraphPlanningService creates a new graph planning service
func NewGraphPlanningService() *GraphPlanningService {
	return &GraphPlanningService{}
}

// CriticalPathResult is the longest chain of transitive dependencies in
// the graph, a proxy for minimum possible completion time.
type CriticalPathResult struct {
	Path   []string `json:"path"`
	Length int      `json:"length"`
}

// ExecutionOrder returns a post-order topological sort: dependencies come
// before their dependents. On a cyclic graph the ordering is best effort;
// the memoized visited set guarantees termination and that every node
// appears exactly once.
func (s *GraphPlanningService) ExecutionOrder(graph *aggregates.DependencyGraph) []string {
	visited := make(map[string]bool)
	order := make([]string, 0, graph.NodeCount())

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		for _, dep := range graph.Dependencies(id) {
			if !visited[dep] {
				visit(dep)
			}
		}
		order = append(order, id)
	}

	for _, id := range graph.NodeIDs() {
		if !visited[id] {
			visit(id)
		}
	}

	return order
}

// CriticalPath computes the longest dependency chain via memoized DFS.
// An isolated node has length 1. Memoization is load-bearing: shared
// sub-dependencies would otherwise make the recursion exponential. Back
// edges are cut so cyclic graphs still terminate.
func (s *GraphPlanningService) CriticalPath(graph *aggregates.DependencyGraph) CriticalPathResult {
	type memoEntry struct {
		path   []string
		length int
	}
	memo := make(map[string]memoEntry)
	inStack := make(map[string]bool)

	var longest func(id string) memoEntry
	longest = func(id string) memoEntry {
		if entry, ok := memo[id]; ok {
			return entry
		}
		if inStack[id] {
			return memoEntry{}
		}
		inStack[id] = true

		best := memoEntry{}
		for _, dep := range graph.Dependencies(id) {
			if sub := longest(dep); sub.length > best.length {
				best = sub
			}
		}

		entry := memoEntry{
			path:   append([]string{id}, best.path...),
			length: best.length + 1,
		}

		inStack[id] = false
		memo[id] = entry
		return entry
	}

	result := CriticalPathResult{Path: []string{}}
	for _, id := range graph.NodeIDs() {
		if entry := longest(id); entry.length > result.Length {
			result.Path = entry.path
			result.Length = entry.length
		}
	}

	return result
}
