//go:build unit

package transport_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/transport"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("should retry server errors until a response succeeds", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: 5 * time.Second, MaxRetries: 3})

		// when
		resp, err := client.Get(context.Background(), server.URL, nil)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("should return client errors without retrying", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: 5 * time.Second, MaxRetries: 3})

		// when
		resp, err := client.Get(context.Background(), server.URL, nil)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("should hand back the last server error once retries are exhausted", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			http.Error(w, "maintenance", http.StatusBadGateway)
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: 5 * time.Second, MaxRetries: 1})

		// when
		resp, err := client.Get(context.Background(), server.URL, nil)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, string(body), "maintenance")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should send a single request when retries are disabled", func(t *testing.T) {
		t.Parallel()

		// given
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: time.Second, MaxRetries: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// when
		resp, err := client.Get(ctx, server.URL, nil)

		// then
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
		assert.NoError(t, ctx.Err())
	})

	t.Run("should keep serving healthy paths after other paths answer 5xx", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/broken") {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()
		client := transport.NewClient(transport.Options{Timeout: time.Second, MaxRetries: 0})
		for i := range 8 {
			resp, err := client.Get(context.Background(), fmt.Sprintf("%s/broken%d", server.URL, i), nil)
			require.NoError(t, err)
			_ = resp.Body.Close()
		}

		// when
		resp, err := client.Get(context.Background(), server.URL+"/healthy", nil)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("should open the breaker after consecutive connection failures", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		client := transport.NewClient(transport.Options{Timeout: time.Second, MaxRetries: 0})
		for range 5 {
			_, err := client.Get(context.Background(), url, nil)
			require.Error(t, err)
			require.NotErrorIs(t, err, transport.ErrUpstreamDown)
		}

		// when
		_, err := client.Get(context.Background(), url, nil)

		// then
		assert.ErrorIs(t, err, transport.ErrUpstreamDown)
	})

	t.Run("should send the caller headers and a user agent", func(t *testing.T) {
		t.Parallel()

		// given
		var accept, agent string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			accept = r.Header.Get("Accept")
			agent = r.Header.Get("User-Agent")
		}))
		defer server.Close()
		client := transport.NewClientFromSettings(entities.DefaultSettings())

		// when
		resp, err := client.Get(context.Background(), server.URL, http.Header{"Accept": []string{"application/json"}})

		// then
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, "application/json", accept)
		assert.Equal(t, "upgrade-dependencies", agent)
	})

	t.Run("should fail for an unreachable host", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		client := transport.NewClient(transport.Options{Timeout: time.Second, MaxRetries: 0})

		// when
		_, err := client.Get(context.Background(), url, nil)

		// then
		assert.Error(t, err)
	})
}
