package memory

import (
	"context"
	"sync"

	"pursuit-backend/application/ports"
	"pursuit-backend/pkg/errors"
)

// MetricsStore is a mutex-guarded in-memory implementation of the derived
// metrics store
type MetricsStore struct {
	mu    sync.RWMutex
	items map[string]*ports.EntityMetrics
	order []string
}

// NewMetricsStore creates an empty in-memory metrics store
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{items: make(map[string]*ports.EntityMetrics)}
}

// Save persists the derived metrics for one entity
func (s *MetricsStore) Save(ctx context.Context, metrics *ports.EntityMetrics) error {
	if metrics == nil || metrics.EntityID == "" {
		return errors.NewValidationError("metrics require an entity id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[metrics.EntityID]; !exists {
		s.order = append(s.order, metrics.EntityID)
	}
	clone := *metrics
	s.items[metrics.EntityID] = &clone
	return nil
}

// Get retrieves the last derived metrics for an entity
func (s *MetricsStore) Get(ctx context.Context, entityID string) (*ports.EntityMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics, ok := s.items[entityID]
	if !ok {
		return nil, errors.NewNotFoundError("metrics")
	}
	clone := *metrics
	return &clone, nil
}

// List retrieves all stored metrics in insertion order
func (s *MetricsStore) List(ctx context.Context) ([]*ports.EntityMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*ports.EntityMetrics, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.items[id]
		out = append(out, &clone)
	}
	return out, nil
}
