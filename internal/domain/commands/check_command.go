package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	infraRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories"
)

// Check is the interface for the check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) (*CheckResult, error)
}

// CheckOptions names the dependency to check.
type CheckOptions struct {
	ProjectOptions
	Name string
}

// CheckResult is the verdict for one dependency.
type CheckResult struct {
	Project     *entities.Project
	Dependency  entities.Dependency
	Latest      entities.Version
	NeedsUpdate bool
}

// CheckCommand fetches a single dependency and compares it with its latest release.
type CheckCommand struct {
	projects repositories.ProjectRepository
	sources  infraRepos.SourcesFactory
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(projects repositories.ProjectRepository, sources infraRepos.SourcesFactory) *CheckCommand {
	return &CheckCommand{projects: projects, sources: sources}
}

// Execute fails with a LookupError when the project does not declare the dependency.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) (*CheckResult, error) {
	project, err := loadProject(it.projects, settings, opts.ProjectOptions)
	if err != nil {
		return nil, err
	}
	dep, err := project.GetDependency(opts.Name)
	if err != nil {
		return nil, err
	}

	if err = dep.Fetch(ctx, it.sources(settings)); err != nil {
		return nil, err
	}
	latest, err := dep.LatestVersion()
	if err != nil {
		return nil, err
	}
	needsUpdate, err := dep.NeedsUpdate()
	if err != nil {
		return nil, err
	}

	logger.Debugf("[check] %s latest=%s needs update=%t", dep, latest, needsUpdate)
	return &CheckResult{Project: project, Dependency: dep, Latest: latest, NeedsUpdate: needsUpdate}, nil
}
