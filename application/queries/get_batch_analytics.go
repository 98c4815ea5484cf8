package queries

// GetBatchAnalyticsQuery recomputes velocity and prediction for every
// non-terminal entity in one pass
type GetBatchAnalyticsQuery struct{}

// Validate ensures the query is well formed
func (q *GetBatchAnalyticsQuery) Validate() error {
	return nil
}
