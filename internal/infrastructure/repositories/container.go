package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	ghcliRepo "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/ghcli"
	gitRepo "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/git"
	ghRepo "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/github"
	manifestRepo "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/manifest"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all pull request provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register("github", ghRepo.NewPullRequestRepository)
		reg.Register("gh", ghcliRepo.NewPullRequestRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register mutator registry; the first mutator supporting a dependency wins
	if err := container.Provide(func() *MutatorRegistry {
		reg := NewMutatorRegistry()
		reg.Register(manifestRepo.NewPyprojectMutator())
		reg.Register(manifestRepo.NewToolPinMutator())
		reg.Register(manifestRepo.NewActionMutator())
		reg.Register(manifestRepo.NewPreCommitMutator())
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() SourcesFactory { return NewSources }); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.ProjectRepository {
		return manifestRepo.NewProjectRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.VersionControlRepository {
		return gitRepo.NewRepository()
	}); err != nil {
		return err
	}

	return nil
}
