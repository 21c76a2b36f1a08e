//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
)

// SpyVersionControlRepository implements repositories.VersionControlRepository as a configurable spy.
type SpyVersionControlRepository struct {
	// --- IsClean ---
	Dirty      bool
	IsCleanErr error

	// --- CurrentBranch ---
	Branch    string
	BranchErr error

	// --- CreateBranch ---
	CreateBranchErr error
	CreatedBranches []string

	// --- Commit ---
	CommitHash     string
	CommitErr      error
	CommitMessages []string
	CommittedPaths [][]string

	// --- Push ---
	PushErr        error
	PushedBranches []string

	// --- RemoteRepository ---
	Remote    entities.Repository
	RemoteErr error
}

var _ repositories.VersionControlRepository = (*SpyVersionControlRepository)(nil)

func (s *SpyVersionControlRepository) IsClean(_ string) (bool, error) {
	return !s.Dirty, s.IsCleanErr
}

func (s *SpyVersionControlRepository) CurrentBranch(_ string) (string, error) {
	return s.Branch, s.BranchErr
}

func (s *SpyVersionControlRepository) CreateBranch(_, branch string) error {
	s.CreatedBranches = append(s.CreatedBranches, branch)
	return s.CreateBranchErr
}

func (s *SpyVersionControlRepository) Commit(_, message string, paths []string) (string, error) {
	s.CommitMessages = append(s.CommitMessages, message)
	s.CommittedPaths = append(s.CommittedPaths, paths)
	return s.CommitHash, s.CommitErr
}

func (s *SpyVersionControlRepository) Push(_ context.Context, _, _, branch string) error {
	s.PushedBranches = append(s.PushedBranches, branch)
	return s.PushErr
}

func (s *SpyVersionControlRepository) RemoteRepository(_, _ string) (entities.Repository, error) {
	return s.Remote, s.RemoteErr
}
