package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/shell"
)

const providerName = "gh"

// Runner executes an external command; shell.Run in production.
type Runner func(ctx context.Context, dir, name string, args ...string) (string, error)

// PullRequestRepository opens pull requests through the GitHub CLI, which
// carries its own authentication. It is used when no token is configured.
type PullRequestRepository struct {
	run Runner
}

// NewPullRequestRepository creates the gh CLI provider. The arguments keep the
// provider factory signature; gh reads its own host and credentials.
func NewPullRequestRepository(_, _ string) repositories.PullRequestRepository {
	return &PullRequestRepository{run: shell.Run}
}

// NewPullRequestRepositoryWithRunner is used to replace the command runner.
func NewPullRequestRepositoryWithRunner(run Runner) *PullRequestRepository {
	return &PullRequestRepository{run: run}
}

func (p *PullRequestRepository) Name() string { return providerName }

func (p *PullRequestRepository) PullRequestExists(
	ctx context.Context,
	repo entities.Repository,
	sourceBranch string,
) (bool, error) {
	output, err := p.run(ctx, "", "gh", "pr", "list",
		"--repo", repo.Organization+"/"+repo.Name,
		"--head", strings.TrimPrefix(sourceBranch, "refs/heads/"),
		"--state", "open",
		"--json", "number",
	)
	if err != nil {
		return false, err
	}

	var prs []struct {
		Number int `json:"number"`
	}
	if output == "" {
		return false, nil
	}
	if decodeErr := json.Unmarshal([]byte(output), &prs); decodeErr != nil {
		return false, fmt.Errorf("failed to parse gh output: %w", decodeErr)
	}
	return len(prs) > 0, nil
}

func (p *PullRequestRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	output, err := p.run(ctx, "", "gh", "pr", "create",
		"--repo", repo.Organization+"/"+repo.Name,
		"--head", strings.TrimPrefix(input.SourceBranch, "refs/heads/"),
		"--base", strings.TrimPrefix(input.TargetBranch, "refs/heads/"),
		"--title", input.Title,
		"--body", input.Description,
	)
	if err != nil {
		return nil, err
	}

	// gh prints the URL of the new pull request as its last line
	lines := strings.Split(output, "\n")
	prURL := strings.TrimSpace(lines[len(lines)-1])
	number, _ := strconv.Atoi(path.Base(prURL))

	logger.Infof("[gh] Opened pull request %s", prURL)
	return &entities.PullRequest{
		ID:     number,
		Title:  input.Title,
		URL:    prURL,
		Status: "open",
	}, nil
}
