package repositories

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// ProjectRepository reads a project and its dependencies from disk.
type ProjectRepository interface {
	// Load fails with a ConfigNotFoundError when the manifest is missing and
	// with a ParseError when any declaration is malformed.
	Load(layout entities.ProjectLayout) (*entities.Project, error)
}
