package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// ProviderFactory is a constructor function that creates a PullRequestRepository
// given the API root and an auth token.
type ProviderFactory func(apiURL, token string) domainRepos.PullRequestRepository

// ProviderRegistry manages all registered pull request providers.
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the given name, API root and token.
func (r *ProviderRegistry) Get(name, apiURL, token string) (domainRepos.PullRequestRepository, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %q", name)
	}
	return factory(apiURL, token), nil
}

// Names returns the sorted list of registered provider names.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
