package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	infraRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories"
)

// Outdated is the interface for the outdated command.
type Outdated interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ProjectOptions) (*OutdatedResult, error)
}

// OutdatedResult lists the dependencies whose specifier excludes the latest
// version, in project order. Failed lookups are reported separately.
type OutdatedResult struct {
	Project  *entities.Project
	Outdated []entities.Dependency
	Failures []entities.FetchFailure
}

// OutdatedCommand fetches every dependency concurrently.
type OutdatedCommand struct {
	projects repositories.ProjectRepository
	sources  infraRepos.SourcesFactory
}

// NewOutdatedCommand creates a new OutdatedCommand.
func NewOutdatedCommand(
	projects repositories.ProjectRepository,
	sources infraRepos.SourcesFactory,
) *OutdatedCommand {
	return &OutdatedCommand{projects: projects, sources: sources}
}

func (it *OutdatedCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ProjectOptions,
) (*OutdatedResult, error) {
	project, err := loadProject(it.projects, settings, opts)
	if err != nil {
		return nil, err
	}

	result := &OutdatedResult{Project: project}
	result.Failures = project.FetchAll(ctx, it.sources(settings), settings.Concurrency)

	for _, dep := range project.Dependencies() {
		needsUpdate, checkErr := dep.NeedsUpdate()
		if checkErr != nil {
			// no metadata: the fetch failed and is already in Failures
			continue
		}
		if needsUpdate {
			result.Outdated = append(result.Outdated, dep)
		}
	}
	logger.Infof("[outdated] %d of %d dependencies need an update, %d lookups failed",
		len(result.Outdated), len(project.Dependencies()), len(result.Failures))
	return result, nil
}
