//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// SpyPullRequestRepository implements repositories.PullRequestRepository as a configurable spy.
type SpyPullRequestRepository struct {
	// --- identity ---
	ProviderName string
	APIURL       string
	Token        string

	// --- PullRequestExists ---
	PRExistsResult   bool
	PRExistsErr      error
	PRExistsBranches []string

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput
	PRRepos     []entities.Repository
}

var _ repositories.PullRequestRepository = (*SpyPullRequestRepository)(nil)

func (s *SpyPullRequestRepository) Name() string { return s.ProviderName }

func (s *SpyPullRequestRepository) PullRequestExists(
	_ context.Context,
	_ entities.Repository,
	branch string,
) (bool, error) {
	s.PRExistsBranches = append(s.PRExistsBranches, branch)
	return s.PRExistsResult, s.PRExistsErr
}

func (s *SpyPullRequestRepository) CreatePullRequest(
	_ context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	s.PRInputs = append(s.PRInputs, input)
	s.PRRepos = append(s.PRRepos, repo)
	if s.CreatePRErr != nil {
		return nil, s.CreatePRErr
	}
	if s.CreatedPR != nil {
		return s.CreatedPR, nil
	}
	return &entities.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   "https://github.com/example/project/pull/1",
	}, nil
}
