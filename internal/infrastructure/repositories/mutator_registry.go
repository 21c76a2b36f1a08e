package repositories

import (
	"sort"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	domainRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// MutatorRegistry manages all registered file mutator implementations.
type MutatorRegistry struct {
	mutators map[string]domainRepos.MutatorRepository
	order    []string
}

// NewMutatorRegistry creates an empty mutator registry.
func NewMutatorRegistry() *MutatorRegistry {
	return &MutatorRegistry{
		mutators: make(map[string]domainRepos.MutatorRepository),
	}
}

// Register adds a mutator under its name. Registering a name twice replaces
// the earlier mutator but keeps its position.
func (r *MutatorRegistry) Register(m domainRepos.MutatorRepository) {
	if _, ok := r.mutators[m.Name()]; !ok {
		r.order = append(r.order, m.Name())
	}
	r.mutators[m.Name()] = m
}

// For returns the first registered mutator supporting dep, or nil.
func (r *MutatorRegistry) For(dep entities.Dependency) domainRepos.MutatorRepository {
	for _, name := range r.order {
		if m := r.mutators[name]; m.Supports(dep) {
			return m
		}
	}
	return nil
}

// Names returns the sorted list of registered mutator names.
func (r *MutatorRegistry) Names() []string {
	names := make([]string, 0, len(r.mutators))
	for name := range r.mutators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
