package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// ProjectOptions locates the project a command works on.
type ProjectOptions struct {
	// ProjectPath defaults to the current working directory.
	ProjectPath string
}

// resolveRoot returns the absolute project directory.
func resolveRoot(projectPath string) (string, error) {
	if projectPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return root, nil
}

func loadProject(
	loader repositories.ProjectRepository,
	settings *entities.Settings,
	opts ProjectOptions,
) (*entities.Project, error) {
	root, err := resolveRoot(opts.ProjectPath)
	if err != nil {
		return nil, err
	}
	return loader.Load(settings.Layout(root))
}

// currentVersion is the version a dependency is pinned or constrained to.
func currentVersion(dep entities.Dependency) string {
	if release, ok := dep.(*entities.ReleaseDependency); ok {
		return release.PinnedTag()
	}
	return dep.Specifier().PrimaryVersion()
}
