package entities

import (
	"time"

	"pursuit-backend/domain/core/valueobjects"
)

// Dependency is a directed relation between two entities: the source
// depends on the target, so the target blocks the source while incomplete.
type Dependency struct {
	ID        string
	SourceID  string
	TargetID  string
	Type      valueobjects.DependencyType
	CreatedAt time.Time
}

// IsBlocking reports whether this dependency participates in blocking,
// cycle, and deadlock computations
func (d *Dependency) IsBlocking() bool {
	return d.Type.IsBlocking()
}

// IsSelfEdge reports whether source and target are the same entity.
// Callers reject self-edges before persisting; the engines tolerate and
// skip any self-edge found in a raw snapshot.
func (d *Dependency) IsSelfEdge() bool {
	return d.SourceID == d.TargetID
}
