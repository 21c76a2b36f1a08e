//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// SpyMutatorRepository implements repositories.MutatorRepository as a configurable spy.
type SpyMutatorRepository struct {
	MutatorName string
	// SupportsFn decides Supports; nil supports everything.
	SupportsFn func(dep entities.Dependency) bool

	Files    []string
	ApplyErr error
	// spy: versions passed to Apply
	AppliedVersions []string
}

var _ repositories.MutatorRepository = (*SpyMutatorRepository)(nil)

func (s *SpyMutatorRepository) Name() string { return s.MutatorName }

func (s *SpyMutatorRepository) Supports(dep entities.Dependency) bool {
	if s.SupportsFn == nil {
		return true
	}
	return s.SupportsFn(dep)
}

func (s *SpyMutatorRepository) Apply(
	_ *entities.Project,
	_ entities.Dependency,
	newVersion string,
) ([]string, error) {
	s.AppliedVersions = append(s.AppliedVersions, newVersion)
	return s.Files, s.ApplyErr
}
