//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"errors"
	"sync"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// ErrUnknownPackage is returned by the stubs for names they were not given.
var ErrUnknownPackage = errors.New("unknown package")

// StubRegistryRepository answers LatestVersion from a map. Safe for concurrent use.
type StubRegistryRepository struct {
	Versions map[string]string
	Errs     map[string]error

	mu    sync.Mutex
	Calls []string
}

var _ repositories.RegistryRepository = (*StubRegistryRepository)(nil)

func (s *StubRegistryRepository) LatestVersion(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, name)
	s.mu.Unlock()

	if err, ok := s.Errs[name]; ok {
		return "", err
	}
	if version, ok := s.Versions[name]; ok {
		return version, nil
	}
	return "", ErrUnknownPackage
}

// StubReleaseRepository answers LatestRelease from a map keyed by "owner/repo".
type StubReleaseRepository struct {
	Tags map[string]string
	Errs map[string]error

	mu    sync.Mutex
	Calls []string
}

var _ repositories.ReleaseRepository = (*StubReleaseRepository)(nil)

func (s *StubReleaseRepository) LatestRelease(_ context.Context, owner, repo string) (string, error) {
	key := owner + "/" + repo
	s.mu.Lock()
	s.Calls = append(s.Calls, key)
	s.mu.Unlock()

	if err, ok := s.Errs[key]; ok {
		return "", err
	}
	if tag, ok := s.Tags[key]; ok {
		return tag, nil
	}
	return "", ErrUnknownPackage
}

// Sources bundles both stubs. A nil stub leaves its source unset.
func Sources(registry *StubRegistryRepository, releases *StubReleaseRepository) entities.Sources {
	var sources entities.Sources
	if registry != nil {
		sources.Registry = registry
	}
	if releases != nil {
		sources.Releases = releases
	}
	return sources
}

// SourcesFactory returns a factory handing out fixed sources, ignoring settings.
func SourcesFactory(sources entities.Sources) func(*entities.Settings) entities.Sources {
	return func(*entities.Settings) entities.Sources { return sources }
}
