//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// RegistryDependencyBuilder helps create package index dependencies with a fluent interface.
type RegistryDependencyBuilder struct {
	*testkit.BaseBuilder
	name      string
	extras    []string
	specifier string
	marker    string
	category  entities.Category
}

// NewRegistryDependencyBuilder creates a new builder with sensible defaults.
func NewRegistryDependencyBuilder() *RegistryDependencyBuilder {
	return &RegistryDependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "requests",
		specifier:   ">=2.0,<3.0",
		category:    entities.BaseCategory(),
	}
}

// WithName sets the package name.
func (b *RegistryDependencyBuilder) WithName(name string) *RegistryDependencyBuilder {
	b.name = name
	return b
}

// WithExtras sets the requested extras.
func (b *RegistryDependencyBuilder) WithExtras(extras ...string) *RegistryDependencyBuilder {
	b.extras = extras
	return b
}

// WithSpecifier sets the version specifier, e.g. ">=1.0".
func (b *RegistryDependencyBuilder) WithSpecifier(specifier string) *RegistryDependencyBuilder {
	b.specifier = specifier
	return b
}

// WithMarker sets the environment marker.
func (b *RegistryDependencyBuilder) WithMarker(marker string) *RegistryDependencyBuilder {
	b.marker = marker
	return b
}

// WithCategory sets the category the dependency is declared in.
func (b *RegistryDependencyBuilder) WithCategory(category entities.Category) *RegistryDependencyBuilder {
	b.category = category
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *RegistryDependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildRequirement creates the requirement the dependency is built from.
func (b *RegistryDependencyBuilder) BuildRequirement() entities.Requirement {
	specifier, err := entities.ParseSpecifier(b.specifier)
	if err != nil {
		panic(err)
	}
	return entities.Requirement{
		Name:      b.name,
		Extras:    b.extras,
		Specifier: specifier,
		Marker:    b.marker,
	}
}

// BuildDependency creates the dependency with a concrete return type.
func (b *RegistryDependencyBuilder) BuildDependency() *entities.RegistryDependency {
	return entities.NewRegistryDependency(b.BuildRequirement(), b.category)
}

// Reset clears the builder state, allowing it to be reused.
func (b *RegistryDependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "requests"
	b.extras = nil
	b.specifier = ">=2.0,<3.0"
	b.marker = ""
	b.category = entities.BaseCategory()
	return b
}

// Clone creates a deep copy of the RegistryDependencyBuilder.
func (b *RegistryDependencyBuilder) Clone() testkit.Builder {
	return &RegistryDependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		extras:      append([]string(nil), b.extras...),
		specifier:   b.specifier,
		marker:      b.marker,
		category:    b.category,
	}
}
