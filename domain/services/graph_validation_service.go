package services

import (
	"fmt"

	"pursuit-backend/domain/core/aggregates"
	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/core/valueobjects"
)

// GraphValidationService answers structural questions about a dependency
// graph snapshot: cycles, deadlocks, blocked items, and cascading delays.
// All methods are pure; they never mutate the snapshot and never fail on
// malformed input.
type GraphValidationService struct{}

// NewGraphValidationService creates a new graph validation service
func NewGraphValidationService() *GraphValidationService {
	return &GraphValidationService{}
}

// CycleResult reports whether a cycle exists and one witness path.
// The path closes on itself, e.g. [A, B, C, A]. Only one cycle is
// reported per call.
type CycleResult struct {
	HasCycle  bool     `json:"hasCycle"`
	CyclePath []string `json:"cyclePath,omitempty"`
}

// DeadlockResult lists entities caught in mutual transitive blocking
type DeadlockResult struct {
	HasDeadlock   bool     `json:"hasDeadlock"`
	DeadlockedIDs []string `json:"deadlockedIds,omitempty"`
}

// BlockerInfo describes one direct incomplete blocker
type BlockerInfo struct {
	ID    string                      `json:"id"`
	Title string                      `json:"title"`
	State valueobjects.LifecycleState `json:"state"`
}

// BlockedItem is the one-hop diagnostic view of a blocked entity
type BlockedItem struct {
	ItemID    string        `json:"itemId"`
	ItemTitle string        `json:"itemTitle"`
	BlockedBy []BlockerInfo `json:"blockedBy"`
}

// AffectedItem records how many dependency hops separate an entity from a
// delay source. Shallower paths win when an entity is reachable at more
// than one depth.
type AffectedItem struct {
	ID               string `json:"id"`
	DelayPropagation int    `json:"delayPropagation"`
}

// CascadingDelay groups the entities a single delay source would ripple to
type CascadingDelay struct {
	SourceID      string         `json:"sourceId"`
	AffectedItems []AffectedItem `json:"affectedItems"`
}

// ValidationReport aggregates every structural check into one result.
// Blocked items and cascading delays are informational; only cycles and
// deadlocks make the graph invalid.
type ValidationReport struct {
	IsValid               bool             `json:"isValid"`
	HasCircularDependency bool             `json:"hasCircularDependency"`
	CircularPath          []string         `json:"circularPath,omitempty"`
	HasDeadlock           bool             `json:"hasDeadlock"`
	DeadlockedItems       []string         `json:"deadlockedItems"`
	BlockedItems          []BlockedItem    `json:"blockedItems"`
	CascadingDelays       []CascadingDelay `json:"cascadingDelays"`
	Diagnostics           []string         `json:"diagnostics"`
}

// DetectCycle runs a depth-first traversal from every unvisited node,
// tracking the recursion stack. A stack hit closes a cycle; the witness
// path runs from the back-edge target through to the point of closure.
// Self-loops count as a one-node cycle.
func (s *GraphValidationService) DetectCycle(graph *aggregates.DependencyGraph) CycleResult {
	visited := make(map[string]bool)
	inStack := make(map[string]bool)
	var stack []string

	var dfs func(id string) []string
	dfs = func(id string) []string {
		visited[id] = true
		inStack[id] = true
		stack = append(stack, id)

		for _, target := range graph.Dependencies(id) {
			if inStack[target] {
				// Back edge: slice the stack from the repeated node and
				// close the path on it.
				for i, frame := range stack {
					if frame == target {
						path := make([]string, 0, len(stack)-i+1)
						path = append(path, stack[i:]...)
						path = append(path, target)
						return path
					}
				}
			}
			if !visited[target] {
				if path := dfs(target); path != nil {
					return path
				}
			}
		}

		stack = stack[:len(stack)-1]
		inStack[id] = false
		return nil
	}

	for _, id := range graph.NodeIDs() {
		if visited[id] {
			continue
		}
		if path := dfs(id); path != nil {
			return CycleResult{HasCycle: true, CyclePath: path}
		}
	}

	return CycleResult{HasCycle: false}
}

// WouldCreateCycle reports whether adding the edge source -> target would
// close a cycle, i.e. whether target can already reach source. The graph
// is never modified; callers run this before persisting a new dependency.
func (s *GraphValidationService) WouldCreateCycle(graph *aggregates.DependencyGraph, sourceID, targetID string) bool {
	if sourceID == targetID {
		return true
	}

	visited := make(map[string]bool)
	var reaches func(id string) bool
	reaches = func(id string) bool {
		if id == sourceID {
			return true
		}
		visited[id] = true
		for _, next := range graph.Dependencies(id) {
			if !visited[next] && reaches(next) {
				return true
			}
		}
		return false
	}

	return reaches(targetID)
}

// DetectDeadlocks finds mutual transitive blocking among non-terminal
// entities. A blocks on B and B, through its own chain of incomplete
// blockers, blocks back on A: both members of every such pair end up in
// the result, deduplicated.
func (s *GraphValidationService) DetectDeadlocks(graph *aggregates.DependencyGraph) DeadlockResult {
	blockers := s.incompleteBlockers(graph)

	// transitivelyBlocks reports whether `from` reaches `goal` through the
	// blocker relation.
	transitivelyBlocks := func(from, goal string) bool {
		visited := make(map[string]bool)
		var walk func(id string) bool
		walk = func(id string) bool {
			if id == goal {
				return true
			}
			visited[id] = true
			for _, next := range blockers[id] {
				if !visited[next] && walk(next) {
					return true
				}
			}
			return false
		}
		return walk(from)
	}

	deadlocked := make(map[string]bool)
	var ids []string
	for _, id := range graph.NodeIDs() {
		for _, blocker := range blockers[id] {
			if transitivelyBlocks(blocker, id) {
				if !deadlocked[id] {
					deadlocked[id] = true
					ids = append(ids, id)
				}
				if !deadlocked[blocker] {
					deadlocked[blocker] = true
					ids = append(ids, blocker)
				}
			}
		}
	}

	return DeadlockResult{HasDeadlock: len(ids) > 0, DeadlockedIDs: ids}
}

// AnalyzeBlockedItems lists, for every non-terminal entity, its direct
// incomplete blockers. One hop only; transitive blocking is the deadlock
// detector's concern.
func (s *GraphValidationService) AnalyzeBlockedItems(graph *aggregates.DependencyGraph) []BlockedItem {
	blockers := s.incompleteBlockers(graph)

	var blocked []BlockedItem
	for _, id := range graph.NodeIDs() {
		direct := blockers[id]
		if len(direct) == 0 {
			continue
		}

		node, _ := graph.Node(id)
		item := BlockedItem{ItemID: id, ItemTitle: node.Title}
		for _, blockerID := range direct {
			blocker, _ := graph.Node(blockerID)
			item.BlockedBy = append(item.BlockedBy, BlockerInfo{
				ID:    blockerID,
				Title: blocker.Title,
				State: blocker.State,
			})
		}
		blocked = append(blocked, item)
	}

	return blocked
}

// DetectCascadingDelays walks reverse edges from every non-completed
// entity that has at least one dependent, recording per reachable
// dependent the minimum hop count at which it was reached.
func (s *GraphValidationService) DetectCascadingDelays(graph *aggregates.DependencyGraph) []CascadingDelay {
	var delays []CascadingDelay

	for _, sourceID := range graph.NodeIDs() {
		source, _ := graph.Node(sourceID)
		if source.IsCompleted() {
			continue
		}
		if len(graph.Dependents(sourceID)) == 0 {
			continue
		}

		depths := make(map[string]int)
		order := make([]string, 0)
		var walk func(id string, depth int)
		walk = func(id string, depth int) {
			for _, dependent := range graph.Dependents(id) {
				if dependent == sourceID {
					continue
				}
				known, seen := depths[dependent]
				if seen && known <= depth+1 {
					continue
				}
				if !seen {
					order = append(order, dependent)
				}
				depths[dependent] = depth + 1
				walk(dependent, depth+1)
			}
		}
		walk(sourceID, 0)

		delay := CascadingDelay{SourceID: sourceID}
		for _, id := range order {
			delay.AffectedItems = append(delay.AffectedItems, AffectedItem{
				ID:               id,
				DelayPropagation: depths[id],
			})
		}
		delays = append(delays, delay)
	}

	return delays
}

// ValidateDependencies runs every structural check against a freshly built
// graph snapshot and aggregates the results. The graph is valid iff no
// cycle and no deadlock was found.
func (s *GraphValidationService) ValidateDependencies(goals, milestones []*entities.Entity, deps []*entities.Dependency) ValidationReport {
	items := make([]*entities.Entity, 0, len(goals)+len(milestones))
	items = append(items, goals...)
	items = append(items, milestones...)
	graph := aggregates.BuildGraph(items, deps)

	cycle := s.DetectCycle(graph)
	deadlock := s.DetectDeadlocks(graph)
	blocked := s.AnalyzeBlockedItems(graph)
	cascading := s.DetectCascadingDelays(graph)

	report := ValidationReport{
		IsValid:               !cycle.HasCycle && !deadlock.HasDeadlock,
		HasCircularDependency: cycle.HasCycle,
		CircularPath:          cycle.CyclePath,
		HasDeadlock:           deadlock.HasDeadlock,
		DeadlockedItems:       deadlock.DeadlockedIDs,
		BlockedItems:          blocked,
		CascadingDelays:       cascading,
		Diagnostics:           []string{},
	}
	if report.DeadlockedItems == nil {
		report.DeadlockedItems = []string{}
	}
	if report.BlockedItems == nil {
		report.BlockedItems = []BlockedItem{}
	}
	if report.CascadingDelays == nil {
		report.CascadingDelays = []CascadingDelay{}
	}

	if cycle.HasCycle {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("circular dependency detected: %v", cycle.CyclePath))
	}
	if deadlock.HasDeadlock {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("%d entities are mutually deadlocked", len(deadlock.DeadlockedIDs)))
	}
	if len(blocked) > 0 {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("%d entities are currently blocked", len(blocked)))
	}

	return report
}

// incompleteBlockers maps every non-terminal node to the targets of its
// blocking edges whose state is not completed. Terminal nodes never block
// on anything.
func (s *GraphValidationService) incompleteBlockers(graph *aggregates.DependencyGraph) map[string][]string {
	blockers := make(map[string][]string)
	for _, id := range graph.NodeIDs() {
		node, _ := graph.Node(id)
		if node.IsTerminal() {
			continue
		}
		for _, targetID := range graph.Dependencies(id) {
			if targetID == id {
				continue
			}
			target, ok := graph.Node(targetID)
			if !ok || target.IsCompleted() {
				continue
			}
			blockers[id] = append(blockers[id], targetID)
		}
	}
	return blockers
}
