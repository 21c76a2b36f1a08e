package repositories

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// MutatorRepository rewrites the file(s) declaring one kind of dependency.
// Rewrites touch only the version token; everything else in the file stays
// byte-identical.
type MutatorRepository interface {
	// Name returns the mutator identifier (e.g. "pyproject", "workflow").
	Name() string

	// Supports returns true if the mutator owns the declaration of dep.
	Supports(dep entities.Dependency) bool

	// Apply pins dep to newVersion and returns the paths of the files written.
	Apply(project *entities.Project, dep entities.Dependency, newVersion string) ([]string, error)
}
