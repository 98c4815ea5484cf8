package memory

import (
	"context"
	"sync"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/pkg/errors"
)

// GoalStore is a mutex-guarded in-memory implementation of the goal
// repository, used in dev mode and tests. Reads return clones so callers
// never alias the stored snapshots.
type GoalStore struct {
	mu    sync.RWMutex
	items map[string]*entities.Entity
	order []string
}

// NewGoalStore creates an empty in-memory goal store
func NewGoalStore() *GoalStore {
	return &GoalStore{items: make(map[string]*entities.Entity)}
}

// Save persists an entity (create or update)
func (s *GoalStore) Save(ctx context.Context, entity *entities.Entity) error {
	if entity == nil || entity.ID == "" {
		return errors.NewValidationError("entity id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[entity.ID]; !exists {
		s.order = append(s.order, entity.ID)
	}
	s.items[entity.ID] = entity.Clone()
	return nil
}

// GetByID retrieves an entity by its ID
func (s *GoalStore) GetByID(ctx context.Context, id string) (*entities.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.items[id]
	if !ok {
		return nil, errors.NewNotFoundError("entity")
	}
	return entity.Clone(), nil
}

// ListGoals retrieves all goal entities in insertion order
func (s *GoalStore) ListGoals(ctx context.Context) ([]*entities.Entity, error) {
	return s.list(func(e *entities.Entity) bool {
		return e.Kind == entities.KindGoal
	}), nil
}

// ListMilestones retrieves all milestones belonging to a goal
func (s *GoalStore) ListMilestones(ctx context.Context, goalID string) ([]*entities.Entity, error) {
	return s.list(func(e *entities.Entity) bool {
		return e.Kind == entities.KindMilestone && e.GoalID == goalID
	}), nil
}

// ListAll retrieves every entity in insertion order
func (s *GoalStore) ListAll(ctx context.Context) ([]*entities.Entity, error) {
	return s.list(func(*entities.Entity) bool { return true }), nil
}

// Delete removes an entity
func (s *GoalStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errors.NewNotFoundError("entity")
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

func (s *GoalStore) list(match func(*entities.Entity) bool) []*entities.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.Entity
	for _, id := range s.order {
		if entity := s.items[id]; match(entity) {
			out = append(out, entity.Clone())
		}
	}
	return out
}
