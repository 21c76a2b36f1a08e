package entities

import "context"

// RegistrySource returns the latest published version of a package.
type RegistrySource interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// ReleaseSource returns the tag of the latest release of a repository.
type ReleaseSource interface {
	LatestRelease(ctx context.Context, owner, repo string) (string, error)
}

// Sources bundles the remote clients a fetch may use.
type Sources struct {
	Registry RegistrySource
	Releases ReleaseSource
}
