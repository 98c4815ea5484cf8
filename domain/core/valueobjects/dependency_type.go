package valueobjects

// DependencyType defines the type of relationship between two entities
type DependencyType string

const (
	DependencyBlocks   DependencyType = "blocks"
	DependencyRequires DependencyType = "requires"
	DependencySoft     DependencyType = "soft_dependency"
)

// IsBlocking reports whether the dependency participates in blocking,
// cycle, and deadlock semantics. Soft dependencies are informational only.
func (t DependencyType) IsBlocking() bool {
	return t == DependencyBlocks || t == DependencyRequires
}

// IsValid reports whether the type is one of the known dependency types
func (t DependencyType) IsValid() bool {
	switch t {
	case DependencyBlocks, DependencyRequires, DependencySoft:
		return true
	default:
		return false
	}
}
