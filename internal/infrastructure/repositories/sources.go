package repositories

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	ghRepo "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/github"
	pypiRepo "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/pypi"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/transport"
)

// SourcesFactory builds the remote clients for the given settings. Settings
// are only known once the command line is parsed, hence the factory.
type SourcesFactory func(settings *entities.Settings) entities.Sources

// NewSources creates the package index and GitHub release clients sharing one
// HTTP transport.
func NewSources(settings *entities.Settings) entities.Sources {
	client := transport.NewClientFromSettings(settings)
	return entities.Sources{
		Registry: pypiRepo.NewRegistryRepository(settings.RegistryURL, client),
		Releases: ghRepo.NewReleaseRepository(settings.GitHubAPIURL, settings.Token, client),
	}
}
