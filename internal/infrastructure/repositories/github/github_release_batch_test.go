//go:build unit

package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/github"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/transport"
)

func actionProject(t *testing.T, uses ...string) *entities.Project {
	t.Helper()

	deps := make([]entities.Dependency, 0, len(uses))
	for _, ref := range uses {
		dep, err := entities.NewActionDependency(ref)
		require.NoError(t, err)
		deps = append(deps, dep)
	}
	return entities.NewProject("demo", entities.ProjectLayout{}, deps)
}

func TestReleaseRepository_FetchAll(t *testing.T) {
	t.Parallel()

	t.Run("should isolate a rate limited release from the rest of the batch", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/repos/o/limited/releases/latest" {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", "1709294400")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(`{"tag_name": "v2.1.0"}`))
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: 5 * time.Second, MaxRetries: 1})
		sources := entities.Sources{Releases: github.NewReleaseRepository(server.URL, "", client)}
		project := actionProject(t, "o/one@v1", "o/two@v1", "o/limited@v1", "o/three@v1", "o/four@v1")

		// when
		failures := project.FetchAll(context.Background(), sources, 2)

		// then
		require.Len(t, failures, 1)
		assert.Equal(t, "o/limited", failures[0].Dependency.Name())
		var rateErr *entities.RateLimitError
		require.True(t, errors.As(failures[0].Err, &rateErr))
		assert.Contains(t, failures[0].Err.Error(), "rate limit resets at Fri, 01 Mar 2024 12:00:00 UTC")

		fetched := 0
		for _, dep := range project.Dependencies() {
			if latest, err := dep.LatestVersion(); err == nil {
				assert.Equal(t, "v2.1.0", latest.String())
				fetched++
			}
		}
		assert.Equal(t, 4, fetched)
	})

	t.Run("should fetch healthy releases after several broken ones", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/repos/o/broken") {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"tag_name": "v3.0.0"}`))
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: 5 * time.Second, MaxRetries: 1})
		sources := entities.Sources{Releases: github.NewReleaseRepository(server.URL, "", client)}
		project := actionProject(t,
			"o/broken1@v1", "o/broken2@v1", "o/broken3@v1", "o/broken4@v1", "o/broken5@v1",
			"o/healthy1@v1", "o/healthy2@v1", "o/healthy3@v1",
		)

		// when
		failures := project.FetchAll(context.Background(), sources, 1)

		// then
		require.Len(t, failures, 5)
		for _, failure := range failures {
			assert.True(t, strings.HasPrefix(failure.Dependency.Name(), "o/broken"))
			assert.NotErrorIs(t, failure.Err, transport.ErrUpstreamDown)
		}
		for _, name := range []string{"o/healthy1", "o/healthy2", "o/healthy3"} {
			dep, err := project.GetDependency(name)
			require.NoError(t, err)
			latest, err := dep.LatestVersion()
			require.NoError(t, err)
			assert.Equal(t, "v3.0.0", latest.String())
		}
	})
}
