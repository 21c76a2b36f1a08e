package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	infraRepos "github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories"
)

const (
	providerAPI = "github"
	providerCLI = "gh"
	branchRef   = "refs/heads/"
)

var errNoMutator = errors.New("no file mutator supports this dependency")

// Update is the interface for the update command.
type Update interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateOptions) (*UpdateResult, error)
}

// UpdateOptions names the dependency to update and how far the flow goes.
type UpdateOptions struct {
	ProjectOptions
	entities.UpdateOptions
	Name string
}

// UpdateResult describes what an update did. Skipped is set when the
// dependency already allowed the target version and nothing was written.
type UpdateResult struct {
	Dependency  entities.Dependency
	From        string
	To          string
	Branch      string
	Files       []string
	Commit      string
	PullRequest *entities.PullRequest
	Skipped     bool
}

// UpdateCommand bumps one dependency on its own branch and opens a pull request.
type UpdateCommand struct {
	projects  repositories.ProjectRepository
	sources   infraRepos.SourcesFactory
	mutators  *infraRepos.MutatorRegistry
	vcs       repositories.VersionControlRepository
	providers *infraRepos.ProviderRegistry
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	projects repositories.ProjectRepository,
	sources infraRepos.SourcesFactory,
	mutators *infraRepos.MutatorRegistry,
	vcs repositories.VersionControlRepository,
	providers *infraRepos.ProviderRegistry,
) *UpdateCommand {
	return &UpdateCommand{
		projects:  projects,
		sources:   sources,
		mutators:  mutators,
		vcs:       vcs,
		providers: providers,
	}
}

// Execute runs fetch, branch, rewrite, changelog, commit, push, and pull request.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateOptions,
) (*UpdateResult, error) {
	project, err := loadProject(it.projects, settings, opts.ProjectOptions)
	if err != nil {
		return nil, err
	}
	dep, err := project.GetDependency(opts.Name)
	if err != nil {
		return nil, err
	}

	target, skip, err := it.resolveTarget(ctx, settings, dep, opts.TargetVersion)
	if err != nil {
		return nil, err
	}
	result := &UpdateResult{
		Dependency: dep,
		From:       currentVersion(dep),
		To:         target,
		Branch:     entities.UpgradeBranchName(settings.BranchPrefix, dep.ShortIdentifier(), target),
	}
	if skip {
		logger.Infof("[update] %s already allows %s, nothing to do", dep, target)
		result.Skipped = true
		return result, nil
	}

	mutator := it.mutators.For(dep)
	if mutator == nil {
		return nil, fmt.Errorf("%s: %w (registered: %s)",
			dep.Name(), errNoMutator, strings.Join(it.mutators.Names(), ", "))
	}

	if opts.DryRun {
		logger.Infof("[update] [dry-run] Would bump %s from %s to %s on branch %s using %s",
			dep.Name(), result.From, target, result.Branch, mutator.Name())
		return result, nil
	}

	root := project.Layout().RootDir
	clean, err := it.vcs.IsClean(root)
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, &entities.PreconditionError{Dependency: dep.Name(), Operation: "updating with uncommitted changes"}
	}

	baseBranch := settings.BaseBranch
	if baseBranch == "" {
		if baseBranch, err = it.vcs.CurrentBranch(root); err != nil {
			return nil, err
		}
	}

	// the edits are carried onto the new branch, so nothing is checked out
	// when the files already hold the target
	if result.Files, err = mutator.Apply(project, dep, target); err != nil {
		return nil, err
	}
	if len(result.Files) == 0 {
		logger.Infof("[update] %s is already pinned to %s", dep.Name(), target)
		result.Skipped = true
		return result, nil
	}
	if err = it.vcs.CreateBranch(root, result.Branch); err != nil {
		return nil, err
	}
	changelog, changed, err := updateChangelog(root, settings.Changelog, dep.Name(), result.From, target)
	if err != nil {
		return nil, err
	}
	if changed {
		result.Files = append(result.Files, changelog)
	}

	message := entities.UpgradeCommitMessage(dep.Name(), result.From, target)
	if result.Commit, err = it.vcs.Commit(root, message, result.Files); err != nil {
		return nil, err
	}
	logger.Infof("[update] Committed %s on %s", result.Commit, result.Branch)

	if opts.SkipPR {
		return result, nil
	}
	if result.PullRequest, err = it.openPullRequest(ctx, settings, opts.Token, root, baseBranch, result, message); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveTarget fetches dep and picks the version to update to. Without an
// explicit version the latest release is used and skip reports whether the
// specifier already allows it.
func (it *UpdateCommand) resolveTarget(
	ctx context.Context,
	settings *entities.Settings,
	dep entities.Dependency,
	requested string,
) (string, bool, error) {
	if requested != "" {
		if _, err := entities.ParseVersion(requested); err != nil {
			return "", false, err
		}
		return requested, false, nil
	}

	if err := dep.Fetch(ctx, it.sources(settings)); err != nil {
		return "", false, err
	}
	latest, err := dep.LatestVersion()
	if err != nil {
		return "", false, err
	}
	needsUpdate, err := dep.NeedsUpdate()
	if err != nil {
		return "", false, err
	}
	return latest.String(), !needsUpdate, nil
}

// updateChangelog records the bump when the project keeps a changelog.
func updateChangelog(root, changelog, name, from, to string) (string, bool, error) {
	if changelog == "" {
		return "", false, nil
	}
	path := changelog
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to stat changelog: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read changelog: %w", err)
	}

	updated, changed := entities.InsertChangelogEntry(string(content), entities.DependencyChangelogEntry(name, from, to))
	if !changed {
		logger.Debugf("[update] %s has no Unreleased section to update", path)
		return "", false, nil
	}
	if err = os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return "", false, fmt.Errorf("failed to write changelog: %w", err)
	}
	return path, true, nil
}

// openPullRequest pushes the branch and opens a pull request, through the
// REST API when a token is available and the gh CLI otherwise.
func (it *UpdateCommand) openPullRequest(
	ctx context.Context,
	settings *entities.Settings,
	token, root, baseBranch string,
	result *UpdateResult,
	title string,
) (*entities.PullRequest, error) {
	if err := it.vcs.Push(ctx, root, settings.Remote, result.Branch); err != nil {
		return nil, err
	}

	repo, err := it.vcs.RemoteRepository(root, settings.Remote)
	if err != nil {
		return nil, err
	}
	repo.DefaultBranch = baseBranch

	if token == "" {
		token = settings.Token
	}
	providerName := providerCLI
	if token != "" {
		providerName = providerAPI
	}
	provider, err := it.providers.Get(providerName, settings.GitHubAPIURL, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	exists, err := provider.PullRequestExists(ctx, repo, branchRef+result.Branch)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Infof("[update] A pull request for %s already exists", result.Branch)
		return nil, nil
	}

	pr, err := provider.CreatePullRequest(ctx, repo, entities.PullRequestInput{
		SourceBranch: branchRef + result.Branch,
		TargetBranch: branchRef + baseBranch,
		Title:        title,
		Description:  pullRequestDescription(result),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PR: %w", err)
	}
	logger.Infof("[update] Created PR #%d: %s", pr.ID, pr.URL)
	return pr, nil
}

func pullRequestDescription(result *UpdateResult) string {
	return fmt.Sprintf(
		"Bumps `%s` from `%s` to `%s`.\n\nUpdated files:\n%s",
		result.Dependency.Name(), result.From, result.To, fileList(result.Files),
	)
}

func fileList(files []string) string {
	var list string
	for _, file := range files {
		list += "- `" + filepath.Base(file) + "`\n"
	}
	return list
}
