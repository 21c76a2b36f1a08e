package entities

import (
	"errors"
	"fmt"
	"strings"

	gitforgeEntities "github.com/rios0rios0/gitforge/domain/entities"
)

// Repository is re-exported from gitforge.
type Repository = gitforgeEntities.Repository

const gitHubHost = "github.com"

var errNotGitHub = errors.New("not a GitHub repository URL")

// ParseGitHubURL extracts owner and repository from an HTTPS or SSH GitHub URL
// such as "https://github.com/psf/black" or "git@github.com:psf/black.git".
func ParseGitHubURL(rawURL string) (string, string, error) {
	cleaned := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(rawURL), "/"), ".git")
	if !strings.Contains(cleaned, gitHubHost) {
		return "", "", fmt.Errorf("%w: %s", errNotGitHub, rawURL)
	}

	var pathPart string
	if strings.HasPrefix(cleaned, "git@") {
		_, after, ok := strings.Cut(cleaned, ":")
		if !ok {
			return "", "", fmt.Errorf("invalid SSH URL: %s", rawURL)
		}
		pathPart = after
	} else {
		_, after, _ := strings.Cut(cleaned, gitHubHost)
		pathPart = strings.TrimPrefix(after, "/")
	}

	segments := strings.Split(pathPart, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" { //nolint:mnd // need owner + repo
		return "", "", fmt.Errorf("cannot extract owner/repo from URL: %s", rawURL)
	}
	return segments[0], segments[1], nil
}
