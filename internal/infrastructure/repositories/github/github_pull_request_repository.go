package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

const providerName = "github"

// PullRequestRepository implements repositories.PullRequestRepository with the GitHub REST API.
type PullRequestRepository struct {
	client *gh.Client
}

// NewPullRequestRepository creates a GitHub provider with the given token.
// An apiURL other than DefaultAPIURL targets another API root, e.g. a GitHub Enterprise server.
func NewPullRequestRepository(apiURL, token string) repositories.PullRequestRepository {
	client := gh.NewClient(nil).WithAuthToken(token)
	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != DefaultAPIURL {
		if baseURL, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/"); err == nil {
			client.BaseURL = baseURL
		} else {
			logger.Warnf("[github] Ignoring invalid API URL %q: %v", apiURL, err)
		}
	}
	return &PullRequestRepository{client: client}
}

func (p *PullRequestRepository) Name() string { return providerName }

func (p *PullRequestRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	prs, _, err := p.client.PullRequests.List(
		ctx, repo.Organization, repo.Name,
		&gh.PullRequestListOptions{
			Head:  repo.Organization + ":" + strings.TrimPrefix(sourceBranch, "refs/heads/"),
			State: "open",
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to list pull requests: %w", err)
	}

	return len(prs) > 0, nil
}

func (p *PullRequestRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(
		ctx, repo.Organization, repo.Name,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	logger.Infof("[github] Opened pull request #%d: %s", pr.GetNumber(), pr.GetHTMLURL())
	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}
