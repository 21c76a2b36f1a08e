package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/transport"
)

// DefaultAPIURL is the public GitHub REST API.
const DefaultAPIURL = "https://api.github.com"

const (
	headerRateLimitReset     = "X-RateLimit-Reset"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
)

var (
	errAPI        = errors.New("GitHub API error")
	errMissingTag = errors.New("response has no tag_name")
)

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// ReleaseRepository reads the latest release of GitHub repositories.
type ReleaseRepository struct {
	apiURL string
	token  string
	client *transport.Client
}

// NewReleaseRepository creates a release client. An empty token sends
// unauthenticated requests.
func NewReleaseRepository(apiURL, token string, client *transport.Client) repositories.ReleaseRepository {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &ReleaseRepository{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
		client: client,
	}
}

// LatestRelease returns tag_name of GET {api}/repos/{owner}/{repo}/releases/latest.
func (p *ReleaseRepository) LatestRelease(ctx context.Context, owner, repo string) (string, error) {
	name := owner + "/" + repo
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases/latest", p.apiURL, owner, repo)
	logger.Debugf("[github] Fetching %s", endpoint)

	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	if p.token != "" {
		header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Get(ctx, endpoint, header)
	if err != nil {
		return "", &entities.FetchError{Dependency: name, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var release releaseResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&release); decodeErr != nil {
			return "", &entities.FetchError{
				Dependency: name, URL: endpoint, StatusCode: resp.StatusCode,
				Err: fmt.Errorf("failed to decode response: %w", decodeErr),
			}
		}
		if release.TagName == "" {
			return "", &entities.FetchError{
				Dependency: name, URL: endpoint, StatusCode: resp.StatusCode, Err: errMissingTag,
			}
		}
		logger.Debugf("[github] %s latest release is %s", name, release.TagName)
		return release.TagName, nil

	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests:
		return "", &entities.RateLimitError{
			Dependency: name,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
			Exceeded: resp.StatusCode == http.StatusTooManyRequests ||
				resp.Header.Get(headerRateLimitRemaining) == "0",
			Reset: parseReset(resp.Header.Get(headerRateLimitReset)),
		}

	default:
		return "", &entities.FetchError{Dependency: name, URL: endpoint, StatusCode: resp.StatusCode, Err: errAPI}
	}
}

// parseReset reads the epoch-seconds reset header; a missing or malformed value yields the zero time.
func parseReset(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		logger.Debugf("[github] Ignoring malformed %s header %q", headerRateLimitReset, raw)
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
