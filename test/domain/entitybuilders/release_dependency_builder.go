//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// ReleaseDependencyBuilder creates GitHub Action and pre-commit hook dependencies.
type ReleaseDependencyBuilder struct {
	*testkit.BaseBuilder
	uses    string
	repoURL string
	rev     string
}

// NewReleaseDependencyBuilder defaults to the actions/checkout@v3 step.
func NewReleaseDependencyBuilder() *ReleaseDependencyBuilder {
	return &ReleaseDependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		uses:        "actions/checkout@v3",
	}
}

// WithUses builds an action dependency from a workflow `uses:` value.
func (b *ReleaseDependencyBuilder) WithUses(uses string) *ReleaseDependencyBuilder {
	b.uses = uses
	b.repoURL = ""
	return b
}

// WithHook builds a pre-commit hook dependency.
func (b *ReleaseDependencyBuilder) WithHook(repoURL, rev string) *ReleaseDependencyBuilder {
	b.uses = ""
	b.repoURL = repoURL
	b.rev = rev
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *ReleaseDependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency and panics on invalid input.
func (b *ReleaseDependencyBuilder) BuildDependency() *entities.ReleaseDependency {
	var (
		dep *entities.ReleaseDependency
		err error
	)
	if b.repoURL != "" {
		dep, err = entities.NewPreCommitDependency(b.repoURL, b.rev)
	} else {
		dep, err = entities.NewActionDependency(b.uses)
	}
	if err != nil {
		panic(err)
	}
	return dep
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseDependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.uses = "actions/checkout@v3"
	b.repoURL = ""
	b.rev = ""
	return b
}

// Clone creates a deep copy of the ReleaseDependencyBuilder.
func (b *ReleaseDependencyBuilder) Clone() testkit.Builder {
	return &ReleaseDependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		uses:        b.uses,
		repoURL:     b.repoURL,
		rev:         b.rev,
	}
}
