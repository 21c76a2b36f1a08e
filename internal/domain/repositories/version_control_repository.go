package repositories

import (
	"context"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// VersionControlRepository drives the local git checkout of a project.
type VersionControlRepository interface {
	IsClean(repoDir string) (bool, error)
	CurrentBranch(repoDir string) (string, error)
	CreateBranch(repoDir, branch string) error
	Commit(repoDir, message string, paths []string) (string, error)
	Push(ctx context.Context, repoDir, remote, branch string) error
	RemoteRepository(repoDir, remote string) (entities.Repository, error)
}
