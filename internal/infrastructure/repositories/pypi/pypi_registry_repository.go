package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/repositories"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/transport"
)

// DefaultURL is the public package index.
const DefaultURL = "https://pypi.org"

var (
	// ErrNotFound is wrapped by the FetchError of an unknown package.
	ErrNotFound       = errors.New("package not found")
	errMissingVersion = errors.New("response has no info.version")
)

type projectResponse struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
}

// RegistryRepository reads package metadata from the PyPI JSON API.
type RegistryRepository struct {
	baseURL string
	client  *transport.Client
}

// NewRegistryRepository creates a client for the index at baseURL.
func NewRegistryRepository(baseURL string, client *transport.Client) repositories.RegistryRepository {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &RegistryRepository{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// LatestVersion returns info.version of GET {base}/pypi/{name}/json.
func (r *RegistryRepository) LatestVersion(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", r.baseURL, url.PathEscape(name))
	logger.Debugf("[pypi] Fetching %s", endpoint)

	resp, err := r.client.Get(ctx, endpoint, http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		return "", &entities.FetchError{Dependency: name, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &entities.FetchError{
			Dependency: name, URL: endpoint, StatusCode: resp.StatusCode, Err: ErrNotFound,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:mnd // error excerpt
		return "", &entities.FetchError{
			Dependency: name,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	var project projectResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&project); decodeErr != nil {
		return "", &entities.FetchError{
			Dependency: name, URL: endpoint, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("failed to decode response: %w", decodeErr),
		}
	}
	if project.Info.Version == "" {
		return "", &entities.FetchError{
			Dependency: name, URL: endpoint, StatusCode: resp.StatusCode, Err: errMissingVersion,
		}
	}

	logger.Debugf("[pypi] %s latest version is %s", name, project.Info.Version)
	return project.Info.Version, nil
}
