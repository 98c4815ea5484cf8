package queries

// ListGoalsQuery lists all top-level goals
type ListGoalsQuery struct{}

// Validate ensures the query is well formed
func (q *ListGoalsQuery) Validate() error {
	return nil
}
