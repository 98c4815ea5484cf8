package memory

import (
	"context"
	"sync"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/errors"
)

// DependencyStore is a mutex-guarded in-memory implementation of the
// dependency repository
type DependencyStore struct {
	mu    sync.RWMutex
	items map[string]*entities.Dependency
	order []string
}

// NewDependencyStore creates an empty in-memory dependency store
func NewDependencyStore() *DependencyStore {
	return &DependencyStore{items: make(map[string]*entities.Dependency)}
}

// Save persists a dependency edge
func (s *DependencyStore) Save(ctx context.Context, dep *entities.Dependency) error {
	if dep == nil || dep.ID == "" {
		return errors.NewValidationError("dependency id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[dep.ID]; !exists {
		s.order = append(s.order, dep.ID)
	}
	clone := *dep
	s.items[dep.ID] = &clone
	return nil
}

// GetByID retrieves a dependency by its ID
func (s *DependencyStore) GetByID(ctx context.Context, id string) (*entities.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dep, ok := s.items[id]
	if !ok {
		return nil, errors.NewNotFoundError("dependency")
	}
	clone := *dep
	return &clone, nil
}

// ListAll retrieves every dependency edge in insertion order
func (s *DependencyStore) ListAll(ctx context.Context) ([]*entities.Dependency, error) {
	return s.list(func(*entities.Dependency) bool { return true }), nil
}

// ListBySource retrieves the edges sourced from an entity
func (s *DependencyStore) ListBySource(ctx context.Context, sourceID string) ([]*entities.Dependency, error) {
	return s.list(func(d *entities.Dependency) bool {
		return d.SourceID == sourceID
	}), nil
}

// Delete removes a dependency
func (s *DependencyStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errors.NewNotFoundError("dependency")
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *DependencyStore) list(match func(*entities.Dependency) bool) []*entities.Dependency {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Dependency
	for _, id := range s.order {
		if dep := s.items[id]; match(dep) {
			clone := *dep
			out = append(out, &clone)
		}
	}
	return out
}
