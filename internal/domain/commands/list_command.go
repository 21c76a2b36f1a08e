package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	infraRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListOptions) (*ListResult, error)
}

// ListOptions holds runtime options for a listing.
type ListOptions struct {
	ProjectOptions
	// Fetch resolves the latest version of every dependency.
	Fetch bool
}

// ListResult is the loaded project and, when fetched, the failed lookups.
type ListResult struct {
	Project  *entities.Project
	Failures []entities.FetchFailure
}

// ListCommand loads the project inventory.
type ListCommand struct {
	projects repositories.ProjectRepository
	sources  infraRepos.SourcesFactory
}

// NewListCommand creates a new ListCommand.
func NewListCommand(projects repositories.ProjectRepository, sources infraRepos.SourcesFactory) *ListCommand {
	return &ListCommand{projects: projects, sources: sources}
}

func (it *ListCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ListOptions,
) (*ListResult, error) {
	project, err := loadProject(it.projects, settings, opts.ProjectOptions)
	if err != nil {
		return nil, err
	}
	result := &ListResult{Project: project}
	if !opts.Fetch {
		return result, nil
	}

	logger.Debugf("[list] Fetching %d dependencies", len(project.Dependencies()))
	result.Failures = project.FetchAll(ctx, it.sources(settings), settings.Concurrency)
	return result, nil
}
