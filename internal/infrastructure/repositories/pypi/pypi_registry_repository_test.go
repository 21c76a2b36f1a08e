//go:build unit

package pypi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/pypi"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/transport"
)

func newClient() *transport.Client {
	return transport.NewClient(transport.Options{Timeout: 5 * time.Second, MaxRetries: 0})
}

func TestRegistryRepository_LatestVersion(t *testing.T) {
	t.Parallel()

	t.Run("should return info.version of the project", func(t *testing.T) {
		t.Parallel()

		// given
		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"info": {"name": "requests", "version": "2.31.0"}, "releases": {}}`))
		}))
		defer server.Close()
		repository := pypi.NewRegistryRepository(server.URL+"/", newClient())

		// when
		version, err := repository.LatestVersion(context.Background(), "requests")

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.31.0", version)
		assert.Equal(t, "/pypi/requests/json", requestedPath)
	})

	t.Run("should report an unknown package", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()
		repository := pypi.NewRegistryRepository(server.URL, newClient())

		// when
		_, err := repository.LatestVersion(context.Background(), "no-such-package")

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, pypi.ErrNotFound)
		assert.ErrorIs(t, err, entities.ErrFetch)
		var fetchErr *entities.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	})

	t.Run("should fail when the response has no version", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"info": {"name": "requests"}}`))
		}))
		defer server.Close()
		repository := pypi.NewRegistryRepository(server.URL, newClient())

		// when
		_, err := repository.LatestVersion(context.Background(), "requests")

		// then
		assert.ErrorIs(t, err, entities.ErrFetch)
		assert.ErrorContains(t, err, "info.version")
	})

	t.Run("should fail on a malformed body", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer server.Close()
		repository := pypi.NewRegistryRepository(server.URL, newClient())

		// when
		_, err := repository.LatestVersion(context.Background(), "requests")

		// then
		assert.ErrorContains(t, err, "failed to decode response")
	})

	t.Run("should include the status of other client errors", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer server.Close()
		repository := pypi.NewRegistryRepository(server.URL, newClient())

		// when
		_, err := repository.LatestVersion(context.Background(), "requests")

		// then
		assert.ErrorContains(t, err, "HTTP 410")
		assert.ErrorContains(t, err, "gone")
	})
}
