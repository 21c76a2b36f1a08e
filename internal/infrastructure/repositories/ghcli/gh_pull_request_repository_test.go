//go:build unit

package ghcli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/ghcli"
)

type recordedCall struct {
	name string
	args []string
}

func stubRunner(output string, err error, calls *[]recordedCall) ghcli.Runner {
	return func(_ context.Context, _ string, name string, args ...string) (string, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return output, err
	}
}

var repo = entities.Repository{Organization: "robbievanleeuwen", Name: "concreteproperties"} //nolint:gochecknoglobals // fixture

func TestPullRequestRepository_PullRequestExists(t *testing.T) {
	t.Parallel()

	t.Run("should find an open pull request for the branch", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []recordedCall
		provider := ghcli.NewPullRequestRepositoryWithRunner(stubRunner(`[{"number": 12}]`, nil, &calls))

		// when
		exists, err := provider.PullRequestExists(context.Background(), repo, "refs/heads/chore/upgrade-black-24.3.1")

		// then
		require.NoError(t, err)
		assert.True(t, exists)
		require.Len(t, calls, 1)
		assert.Equal(t, "gh", calls[0].name)
		assert.Equal(t, []string{
			"pr", "list",
			"--repo", "robbievanleeuwen/concreteproperties",
			"--head", "chore/upgrade-black-24.3.1",
			"--state", "open",
			"--json", "number",
		}, calls[0].args)
	})

	t.Run("should report no pull request for an empty list", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []recordedCall
		provider := ghcli.NewPullRequestRepositoryWithRunner(stubRunner("[]", nil, &calls))

		// when
		exists, err := provider.PullRequestExists(context.Background(), repo, "feature")

		// then
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("should propagate command failures", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []recordedCall
		failure := &entities.ShellCommandError{Command: "gh", Err: errors.New("exit status 4")}
		provider := ghcli.NewPullRequestRepositoryWithRunner(stubRunner("", failure, &calls))

		// when
		_, err := provider.PullRequestExists(context.Background(), repo, "feature")

		// then
		assert.ErrorIs(t, err, entities.ErrShellCommand)
	})
}

func TestPullRequestRepository_CreatePullRequest(t *testing.T) {
	t.Parallel()

	t.Run("should read the pull request URL from the last output line", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []recordedCall
		output := "Creating pull request for chore/upgrade-black-24.3.1 into main\n" +
			"https://github.com/robbievanleeuwen/concreteproperties/pull/42"
		provider := ghcli.NewPullRequestRepositoryWithRunner(stubRunner(output, nil, &calls))
		input := entities.PullRequestInput{
			SourceBranch: "refs/heads/chore/upgrade-black-24.3.1",
			TargetBranch: "refs/heads/main",
			Title:        "chore(deps): bumped psf/black from 23.1.0 to 24.3.1",
			Description:  "body",
		}

		// when
		pr, err := provider.CreatePullRequest(context.Background(), repo, input)

		// then
		require.NoError(t, err)
		assert.Equal(t, 42, pr.ID)
		assert.Equal(t, "https://github.com/robbievanleeuwen/concreteproperties/pull/42", pr.URL)
		assert.Equal(t, input.Title, pr.Title)
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].args, "--base")
		assert.Contains(t, calls[0].args, "main")
		assert.Equal(t, "gh", provider.Name())
	})
}
