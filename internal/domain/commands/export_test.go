package commands

// CurrentVersion exports currentVersion for testing.
var CurrentVersion = currentVersion //nolint:gochecknoglobals // test export

// UpdateChangelog exports updateChangelog for testing.
var UpdateChangelog = updateChangelog //nolint:gochecknoglobals // test export

// PullRequestDescription exports pullRequestDescription for testing.
var PullRequestDescription = pullRequestDescription //nolint:gochecknoglobals // test export
