package entities

import "time"

// ProgressUpdate is a time-stamped progress observation for one entity.
// Updates are ordered ascending by CreatedAt per entity.
type ProgressUpdate struct {
	ID         string
	EntityID   string
	Percentage float64 // 0-100
	CreatedAt  time.Time

	// Optional behavioral fields, 1-10 when present
	MotivationLevel *int
	ConfidenceLevel *int
}

// FilterUpdates returns the updates belonging to entityID sorted ascending
// by creation time. The input slice is not modified.
func FilterUpdates(updates []*ProgressUpdate, entityID string) []*ProgressUpdate {
	var filtered []*ProgressUpdate
	for _, u := range updates {
		if u != nil && u.EntityID == entityID {
			filtered = append(filtered, u)
		}
	}

	// Insertion sort keeps already-ordered histories cheap
	for i := 1; i < len(filtered); i++ {
		for j := i; j > 0 && filtered[j].CreatedAt.Before(filtered[j-1].CreatedAt); j-- {
			filtered[j], filtered[j-1] = filtered[j-1], filtered[j]
		}
	}

	return filtered
}
