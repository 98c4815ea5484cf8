package ports

import (
	"context"
	"time"

	"pursuit-backend/domain/core/entities"
	"pursuit-backend/domain/services"
)

// GoalRepository defines the interface for goal and milestone persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation. Both kinds share the entity snapshot shape; milestones
// carry a GoalID.
type GoalRepository interface {
	// Save persists an entity (create or update)
	Save(ctx context.Context, entity *entities.Entity) error

	// GetByID retrieves an entity by its ID
	GetByID(ctx context.Context, id string) (*entities.Entity, error)

	// ListGoals retrieves all goal entities
	ListGoals(ctx context.Context) ([]*entities.Entity, error)

	// ListMilestones retrieves all milestones belonging to a goal
	ListMilestones(ctx context.Context, goalID string) ([]*entities.Entity, error)

	// ListAll retrieves every entity, goals and milestones alike
	ListAll(ctx context.Context) ([]*entities.Entity, error)

	// Delete removes an entity
	Delete(ctx context.Context, id string) error
}

// ProgressRepository defines the interface for progress-update persistence
type ProgressRepository interface {
	// Save persists a progress update
	Save(ctx context.Context, update *entities.ProgressUpdate) error

	// ListByEntity retrieves all updates for an entity, oldest first
	ListByEntity(ctx context.Context, entityID string) ([]*entities.ProgressUpdate, error)

	// ListAll retrieves every recorded update
	ListAll(ctx context.Context) ([]*entities.ProgressUpdate, error)
}

// DependencyRepository defines the interface for dependency persistence
type DependencyRepository interface {
	// Save persists a dependency edge
	Save(ctx context.Context, dep *entities.Dependency) error

	// GetByID retrieves a dependency by its ID
	GetByID(ctx context.Context, id string) (*entities.Dependency, error)

	// ListAll retrieves every dependency edge
	ListAll(ctx context.Context) ([]*entities.Dependency, error)

	// ListBySource retrieves the edges sourced from an entity
	ListBySource(ctx context.Context, sourceID string) ([]*entities.Dependency, error)

	// Delete removes a dependency
	Delete(ctx context.Context, id string) error
}

// EntityMetrics is the cached analytics snapshot for one entity. The
// engines recompute on demand; this record only exists so dashboards can
// read the last derived values without paying for recomputation.
type EntityMetrics struct {
	EntityID   string                    `json:"entityId"`
	Velocity   services.VelocityResult   `json:"velocity"`
	Prediction services.PredictionResult `json:"prediction"`
	ComputedAt time.Time                 `json:"computedAt"`
}

// MetricsStore defines the interface for persisting derived metrics
type MetricsStore interface {
	// Save persists the derived metrics for one entity
	Save(ctx context.Context, metrics *EntityMetrics) error

	// Get retrieves the last derived metrics for an entity
	Get(ctx context.Context, entityID string) (*EntityMetrics, error)

	// List retrieves all stored metrics
	List(ctx context.Context) ([]*EntityMetrics, error)
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
