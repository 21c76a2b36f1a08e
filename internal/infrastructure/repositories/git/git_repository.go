package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/shell"
)

const (
	fallbackAuthorName  = "upgrade-dependencies"
	fallbackAuthorEmail = "upgrade-dependencies@users.noreply.github.com"
)

var errDetachedHead = errors.New("HEAD is not on a branch")

// Repository implements repositories.VersionControlRepository. Branches and
// commits go through go-git; pushes shell out to git so the user's credential
// helpers apply.
type Repository struct {
	now func() time.Time
}

// NewRepository creates the local git adapter.
func NewRepository() repositories.VersionControlRepository {
	return &Repository{now: time.Now}
}

func open(repoDir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(repoDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", repoDir, err)
	}
	return repo, nil
}

// IsClean reports whether tracked files have no staged or unstaged change.
// Untracked files are ignored.
func (it *Repository) IsClean(repoDir string) (bool, error) {
	repo, err := open(repoDir)
	if err != nil {
		return false, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}

	for path, file := range status {
		if file.Worktree == gogit.Untracked && file.Staging == gogit.Untracked {
			continue
		}
		if file.Worktree != gogit.Unmodified || file.Staging != gogit.Unmodified {
			logger.Debugf("[git] %s is modified", path)
			return false, nil
		}
	}
	return true, nil
}

func (it *Repository) CurrentBranch(repoDir string) (string, error) {
	repo, err := open(repoDir)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errDetachedHead
	}
	return head.Name().Short(), nil
}

// CreateBranch creates branch at HEAD and checks it out.
func (it *Repository) CreateBranch(repoDir, branch string) error {
	repo, err := open(repoDir)
	if err != nil {
		return err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	if checkoutErr := worktree.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
		Keep:   true,
	}); checkoutErr != nil {
		return fmt.Errorf("failed to create branch %q: %w", branch, checkoutErr)
	}
	logger.Infof("[git] Switched to new branch %q", branch)
	return nil
}

// Commit stages paths and commits them, returning the new commit hash.
func (it *Repository) Commit(repoDir, message string, paths []string) (string, error) {
	repo, err := open(repoDir)
	if err != nil {
		return "", err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	for _, path := range paths {
		rel := path
		if filepath.IsAbs(path) {
			if rel, err = filepath.Rel(root, path); err != nil {
				return "", fmt.Errorf("failed to resolve %q inside %q: %w", path, root, err)
			}
		}
		if _, addErr := worktree.Add(filepath.ToSlash(rel)); addErr != nil {
			return "", fmt.Errorf("failed to stage %q: %w", rel, addErr)
		}
	}

	hash, err := worktree.Commit(message, &gogit.CommitOptions{Author: it.author(repo)})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	logger.Infof("[git] Committed %s: %s", hash.String()[:7], message)
	return hash.String(), nil
}

// author is the user identity from the git config, or a bot identity when none is set.
func (it *Repository) author(repo *gogit.Repository) *object.Signature {
	signature := &object.Signature{Name: fallbackAuthorName, Email: fallbackAuthorEmail, When: it.now()}

	cfg, err := repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		logger.Debugf("[git] Cannot read git config, committing as %s: %v", fallbackAuthorName, err)
		return signature
	}
	if cfg.User.Name != "" {
		signature.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		signature.Email = cfg.User.Email
	}
	return signature
}

// Push publishes branch to remote and sets it as upstream.
func (it *Repository) Push(ctx context.Context, repoDir, remote, branch string) error {
	if _, err := shell.Run(ctx, repoDir, "git", "push", "--set-upstream", remote, branch); err != nil {
		return err
	}
	logger.Infof("[git] Pushed %q to %q", branch, remote)
	return nil
}

// RemoteRepository describes the GitHub repository behind remote.
func (it *Repository) RemoteRepository(repoDir, remote string) (entities.Repository, error) {
	repo, err := open(repoDir)
	if err != nil {
		return entities.Repository{}, err
	}
	gitRemote, err := repo.Remote(remote)
	if err != nil {
		return entities.Repository{}, fmt.Errorf("failed to read remote %q: %w", remote, err)
	}
	urls := gitRemote.Config().URLs
	if len(urls) == 0 {
		return entities.Repository{}, fmt.Errorf("remote %q has no URL", remote)
	}

	owner, name, err := entities.ParseGitHubURL(urls[0])
	if err != nil {
		return entities.Repository{}, err
	}
	return entities.Repository{
		Name:         name,
		Organization: owner,
		RemoteURL:    urls[0],
		ProviderName: "github",
	}, nil
}
