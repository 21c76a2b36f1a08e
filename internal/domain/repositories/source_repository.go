package repositories

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// RegistryRepository resolves the latest version of a package on the package index.
type RegistryRepository = entities.RegistrySource

// ReleaseRepository resolves the latest release tag of a GitHub repository.
type ReleaseRepository = entities.ReleaseSource
