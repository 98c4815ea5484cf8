package queries

// ValidateDependenciesQuery runs the full structural report over the
// current dependency graph: cycles, deadlocks, blocked items, and
// cascading delays
type ValidateDependenciesQuery struct{}

// Validate ensures the query is well formed
func (q *ValidateDependenciesQuery) Validate() error {
	return nil
}
