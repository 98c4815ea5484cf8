package aggregates

import (
	"pursuit-backend/domain/core/entities"
)

// DependencyGraph is a per-query snapshot of the dependency structure.
// It is built once from fresh entity and dependency collections and is
// immutable for the lifetime of one query; callers rebuild rather than
// incrementally update.
type DependencyGraph struct {
	nodes     map[string]*entities.Entity
	adjacency map[string][]string // source -> targets it depends on (blocking edges only)
	reverse   map[string][]string // target -> sources that depend on it
	order     []string            // node insertion order, for deterministic traversal
}

// BuildGraph constructs a graph snapshot from entity and dependency
// collections. Dependencies referencing unknown entities are silently
// dropped: the source collections may be stale and the engine processes
// raw snapshots defensively. Soft dependencies never enter the adjacency.
// Self-edges are kept so cycle detection can report them as one-node
// cycles; blocking analysis skips them.
func BuildGraph(items []*entities.Entity, deps []*entities.Dependency) *DependencyGraph {
	g := &DependencyGraph{
		nodes:     make(map[string]*entities.Entity, len(items)),
		adjacency: make(map[string][]string),
		reverse:   make(map[string][]string),
	}

	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}
		if _, exists := g.nodes[item.ID]; exists {
			continue
		}
		g.nodes[item.ID] = item
		g.order = append(g.order, item.ID)
	}

	for _, dep := range deps {
		if dep == nil || !dep.IsBlocking() {
			continue
		}
		if _, ok := g.nodes[dep.SourceID]; !ok {
			continue
		}
		if _, ok := g.nodes[dep.TargetID]; !ok {
			continue
		}
		g.adjacency[dep.SourceID] = append(g.adjacency[dep.SourceID], dep.TargetID)
		g.reverse[dep.TargetID] = append(g.reverse[dep.TargetID], dep.SourceID)
	}

	return g
}

// Node returns the entity snapshot for an id
func (g *DependencyGraph) Node(id string) (*entities.Entity, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// HasNode checks if an entity exists in the graph
func (g *DependencyGraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeIDs returns all node ids in insertion order
func (g *DependencyGraph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Dependencies returns the ids the given entity depends on, in edge order
func (g *DependencyGraph) Dependencies(id string) []string {
	return g.adjacency[id]
}

// Dependents returns the ids that depend on the given entity
func (g *DependencyGraph) Dependents(id string) []string {
	return g.reverse[id]
}

// NodeCount returns the number of nodes in the snapshot
func (g *DependencyGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of blocking edges in the snapshot
func (g *DependencyGraph) EdgeCount() int {
	count := 0
	for _, targets := range g.adjacency {
		count += len(targets)
	}
	return count
}
