package queries

// GetExecutionPlanQuery derives a topological execution order and the
// critical path from the current dependency graph
type GetExecutionPlanQuery struct{}

// Validate ensures the query is well formed
func (q *GetExecutionPlanQuery) Validate() error {
	return nil
}
