//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// StubProjectRepository returns a prepared project and records the layouts asked for.
type StubProjectRepository struct {
	Project *entities.Project
	LoadErr error
	Layouts []entities.ProjectLayout
}

var _ repositories.ProjectRepository = (*StubProjectRepository)(nil)

func (s *StubProjectRepository) Load(layout entities.ProjectLayout) (*entities.Project, error) {
	s.Layouts = append(s.Layouts, layout)
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Project, nil
}
