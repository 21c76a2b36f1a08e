package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/domain/entities"
)

// PullRequestInput is re-exported from gitforge.
type PullRequestInput = gitforgeEntities.PullRequestInput

// PullRequest is re-exported from gitforge.
type PullRequest = gitforgeEntities.PullRequest

// UpgradeBranchName is the branch an upgrade of one dependency is committed on.
func UpgradeBranchName(prefix, shortIdentifier, version string) string {
	return prefix + shortIdentifier + "-" + version
}

// UpgradeCommitMessage is the conventional commit message of an upgrade.
func UpgradeCommitMessage(name, from, to string) string {
	if from == "" {
		return "chore(deps): bumped " + name + " to " + to
	}
	return "chore(deps): bumped " + name + " from " + from + " to " + to
}
