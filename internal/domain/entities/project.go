package entities

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the goroutines of one fetch batch.
const DefaultConcurrency = 16

// ProjectLayout holds the filesystem locations a project is read from.
type ProjectLayout struct {
	RootDir         string
	Manifest        string
	WorkflowsDir    string
	PreCommitConfig string
}

// NamedDependencies is the ordered content of one extra or dependency group.
type NamedDependencies struct {
	Name         string
	Dependencies []Dependency
}

// FetchFailure is one dependency whose fetch failed during FetchAll.
type FetchFailure struct {
	Dependency Dependency
	Err        error
}

// Project is a Python project and every dependency declared by it. The
// dependency list is fixed at construction.
type Project struct {
	name         string
	layout       ProjectLayout
	dependencies []Dependency
}

// NewProject builds a project. Dependencies are expected in load order: base,
// optional, groups, workflow env pins, actions, pre-commit hooks.
func NewProject(name string, layout ProjectLayout, dependencies []Dependency) *Project {
	return &Project{
		name:         name,
		layout:       layout,
		dependencies: append([]Dependency(nil), dependencies...),
	}
}

func (it *Project) Name() string          { return it.name }
func (it *Project) Layout() ProjectLayout { return it.layout }

// Dependencies returns a copy of every dependency in load order.
func (it *Project) Dependencies() []Dependency {
	return append([]Dependency(nil), it.dependencies...)
}

// GetDependency returns the first dependency whose name matches exactly.
func (it *Project) GetDependency(name string) (Dependency, error) {
	for _, dep := range it.dependencies {
		if dep.Name() == name {
			return dep, nil
		}
	}
	return nil, &LookupError{Name: name, Scope: it.name}
}

func (it *Project) filter(keep func(Dependency) bool) []Dependency {
	var result []Dependency
	for _, dep := range it.dependencies {
		if keep(dep) {
			result = append(result, dep)
		}
	}
	return result
}

func (it *Project) ofKind(kind CategoryKind) []Dependency {
	return it.filter(func(dep Dependency) bool { return dep.Category().Kind == kind })
}

func (it *Project) BaseDependencies() []Dependency { return it.ofKind(CategoryBase) }

func (it *Project) GitHubActionDependencies() []Dependency { return it.ofKind(CategoryGitHubAction) }

func (it *Project) PreCommitDependencies() []Dependency { return it.ofKind(CategoryPreCommit) }

// OptionalDependencies groups the optional dependencies by extra, in declaration order.
func (it *Project) OptionalDependencies() []NamedDependencies { return it.grouped(CategoryOptional) }

// GroupDependencies groups the dependency-group members by group, in declaration order.
func (it *Project) GroupDependencies() []NamedDependencies { return it.grouped(CategoryGroup) }

// Extras lists the extra names in declaration order.
func (it *Project) Extras() []string { return names(it.OptionalDependencies()) }

// Groups lists the dependency-group names in declaration order.
func (it *Project) Groups() []string { return names(it.GroupDependencies()) }

// RegistryDependencies are the dependencies resolved against the package index.
func (it *Project) RegistryDependencies() []Dependency {
	return it.filter(func(dep Dependency) bool { return dep.Category().IsRegistry() })
}

// ReleaseDependencies are the actions and hooks resolved against GitHub releases.
func (it *Project) ReleaseDependencies() []Dependency {
	return it.filter(func(dep Dependency) bool { return !dep.Category().IsRegistry() })
}

func (it *Project) grouped(kind CategoryKind) []NamedDependencies {
	var result []NamedDependencies
	index := map[string]int{}
	for _, dep := range it.ofKind(kind) {
		name := dep.Category().Name
		i, ok := index[name]
		if !ok {
			i = len(result)
			index[name] = i
			result = append(result, NamedDependencies{Name: name})
		}
		result[i].Dependencies = append(result[i].Dependencies, dep)
	}
	return result
}

func names(groups []NamedDependencies) []string {
	result := make([]string, 0, len(groups))
	for _, g := range groups {
		result = append(result, g.Name)
	}
	return result
}

// FetchAll fetches every dependency. Registry and release dependencies run as
// two concurrent batches of at most limit goroutines each. A failed fetch never
// stops its siblings; failures are returned in dependency order.
func (it *Project) FetchAll(ctx context.Context, sources Sources, limit int) []FetchFailure {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	registry := it.RegistryDependencies()
	releases := it.ReleaseDependencies()
	registryErrs := make([]error, len(registry))
	releaseErrs := make([]error, len(releases))

	var batches errgroup.Group
	batches.Go(func() error {
		fetchBatch(ctx, sources, limit, registry, registryErrs)
		return nil
	})
	batches.Go(func() error {
		fetchBatch(ctx, sources, limit, releases, releaseErrs)
		return nil
	})
	_ = batches.Wait()

	failed := map[Dependency]error{}
	for i, err := range registryErrs {
		if err != nil {
			failed[registry[i]] = err
		}
	}
	for i, err := range releaseErrs {
		if err != nil {
			failed[releases[i]] = err
		}
	}

	var failures []FetchFailure
	for _, dep := range it.dependencies {
		if err, ok := failed[dep]; ok {
			failures = append(failures, FetchFailure{Dependency: dep, Err: err})
		}
	}
	return failures
}

// fetchBatch runs one fetch per dependency. Each goroutine writes only its own
// slot of errs and its own dependency's metadata.
func fetchBatch(ctx context.Context, sources Sources, limit int, deps []Dependency, errs []error) {
	var g errgroup.Group
	g.SetLimit(limit)
	for i, dep := range deps {
		g.Go(func() error {
			errs[i] = dep.Fetch(ctx, sources)
			return nil
		})
	}
	_ = g.Wait()
}
