//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	domainRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories"
	builders "github.com/robbievanleeuwen/upgrade-dependencies/test/domain/entitybuilders"
	doubles "github.com/robbievanleeuwen/upgrade-dependencies/test/infrastructure/repositorydoubles"
)

func TestMutatorRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should pick the first mutator supporting the dependency", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewMutatorRegistry()
		never := &doubles.SpyMutatorRepository{MutatorName: "never", SupportsFn: func(entities.Dependency) bool { return false }}
		first := &doubles.SpyMutatorRepository{MutatorName: "first"}
		second := &doubles.SpyMutatorRepository{MutatorName: "second"}
		registry.Register(never)
		registry.Register(first)
		registry.Register(second)
		dep := builders.NewRegistryDependencyBuilder().BuildDependency()

		// when
		found := registry.For(dep)

		// then
		assert.Same(t, first, found)
		assert.Equal(t, []string{"first", "never", "second"}, registry.Names())
	})

	t.Run("should return nil when nothing supports the dependency", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewMutatorRegistry()
		registry.Register(&doubles.SpyMutatorRepository{
			MutatorName: "never",
			SupportsFn:  func(entities.Dependency) bool { return false },
		})

		// when
		found := registry.For(builders.NewRegistryDependencyBuilder().BuildDependency())

		// then
		assert.Nil(t, found)
	})

	t.Run("should replace a mutator registered twice in place", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewMutatorRegistry()
		replacement := &doubles.SpyMutatorRepository{MutatorName: "a"}
		registry.Register(&doubles.SpyMutatorRepository{MutatorName: "a"})
		registry.Register(&doubles.SpyMutatorRepository{MutatorName: "b"})

		// when
		registry.Register(replacement)

		// then
		assert.Equal(t, []string{"a", "b"}, registry.Names())
		assert.Same(t, replacement, registry.For(builders.NewRegistryDependencyBuilder().BuildDependency()))
	})
}

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build the provider with the token", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()
		registry.Register("github", func(apiURL, token string) domainRepos.PullRequestRepository {
			return &doubles.SpyPullRequestRepository{ProviderName: "github", APIURL: apiURL, Token: token}
		})

		// when
		provider, err := registry.Get("github", "https://ghe.example.com/api/v3", "ghp_token")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github", provider.Name())
		spy := provider.(*doubles.SpyPullRequestRepository)
		assert.Equal(t, "ghp_token", spy.Token)
		assert.Equal(t, "https://ghe.example.com/api/v3", spy.APIURL)
	})

	t.Run("should fail for an unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()

		// when
		_, err := registry.Get("bitbucket", "", "")

		// then
		assert.EqualError(t, err, `unknown provider type: "bitbucket"`)
	})

	t.Run("should list the registered names sorted", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()
		factory := func(_, _ string) domainRepos.PullRequestRepository { return &doubles.SpyPullRequestRepository{} }
		registry.Register("gh", factory)
		registry.Register("github", factory)

		// when
		names := registry.Names()

		// then
		assert.Equal(t, []string{"gh", "github"}, names)
	})
}

func TestNewSources(t *testing.T) {
	t.Parallel()

	t.Run("should configure both remote sources", func(t *testing.T) {
		t.Parallel()

		// when
		sources := repositories.NewSources(entities.DefaultSettings())

		// then
		assert.NotNil(t, sources.Registry)
		assert.NotNil(t, sources.Releases)
	})
}
