package memory

import (
	"context"
	"sync"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/errors"
)

// ProgressStore is a mutex-guarded in-memory implementation of the
// progress repository. Updates are kept in insertion order, which matches
// creation order for a single process.
type ProgressStore struct {
	mu      sync.RWMutex
	updates []*entities.ProgressUpdate
}

// NewProgressStore creates an empty in-memory progress store
func NewProgressStore() *ProgressStore {
	return &ProgressStore{}
}

// Save persists a progress update
func (s *ProgressStore) Save(ctx context.Context, update *entities.ProgressUpdate) error {
	if update == nil || update.EntityID == "" {
		return errors.NewValidationError("progress update requires an entity id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *update
	s.updates = append(s.updates, &clone)
	return nil
}

// ListByEntity retrieves all updates for an entity, oldest first
func (s *ProgressStore) ListByEntity(ctx context.Context, entityID string) ([]*entities.ProgressUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.ProgressUpdate
	for _, u := range s.updates {
		if u.EntityID == entityID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ListAll retrieves every recorded update
func (s *ProgressStore) ListAll(ctx context.Context) ([]*entities.ProgressUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.ProgressUpdate, 0, len(s.updates))
	for _, u := range s.updates {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}
