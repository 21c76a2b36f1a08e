package repositories

import (
	"context"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// PullRequestRepository opens pull requests on a Git hosting service.
type PullRequestRepository interface {
	// Name returns the provider identifier (e.g. "github", "gh").
	Name() string

	PullRequestExists(ctx context.Context, repo entities.Repository, sourceBranch string) (bool, error)

	CreatePullRequest(
		ctx context.Context,
		repo entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)
}
