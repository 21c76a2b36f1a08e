//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path/filepath"

	testkit "github.com/rios0rios0/testkit/pkg/test"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// ProjectBuilder helps create test projects with a fluent interface.
type ProjectBuilder struct {
	*testkit.BaseBuilder
	name         string
	rootDir      string
	dependencies []entities.Dependency
}

// NewProjectBuilder creates an empty project rooted at /tmp/project.
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-project",
		rootDir:     filepath.Join("/tmp", "project"),
	}
}

// WithName sets the project name.
func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.name = name
	return b
}

// WithRootDir sets the project directory the layout is resolved against.
func (b *ProjectBuilder) WithRootDir(rootDir string) *ProjectBuilder {
	b.rootDir = rootDir
	return b
}

// WithDependencies appends dependencies in load order.
func (b *ProjectBuilder) WithDependencies(deps ...entities.Dependency) *ProjectBuilder {
	b.dependencies = append(b.dependencies, deps...)
	return b
}

// Build creates the project (satisfies testkit.Builder interface).
func (b *ProjectBuilder) Build() interface{} {
	return b.BuildProject()
}

// BuildProject creates the project with the default file layout.
func (b *ProjectBuilder) BuildProject() *entities.Project {
	layout := entities.DefaultSettings().Layout(b.rootDir)
	return entities.NewProject(b.name, layout, b.dependencies)
}

// Reset clears the builder state, allowing it to be reused.
func (b *ProjectBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-project"
	b.rootDir = filepath.Join("/tmp", "project")
	b.dependencies = nil
	return b
}

// Clone creates a deep copy of the ProjectBuilder.
func (b *ProjectBuilder) Clone() testkit.Builder {
	return &ProjectBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:         b.name,
		rootDir:      b.rootDir,
		dependencies: append([]entities.Dependency(nil), b.dependencies...),
	}
}
