//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should override the defaults from the file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := writeFile(t, dir, "upgrade-dependencies.yaml", `
registry_url: https://pypi.example.com
http_timeout: 30s
concurrency: 4
branch_prefix: deps/
token: ghp_inline
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://pypi.example.com", settings.RegistryURL)
		assert.Equal(t, 30*time.Second, settings.HTTPTimeout)
		assert.Equal(t, 4, settings.Concurrency)
		assert.Equal(t, "deps/", settings.BranchPrefix)
		assert.Equal(t, "ghp_inline", settings.Token)
		assert.Equal(t, "https://api.github.com", settings.GitHubAPIURL)
		assert.Equal(t, "pyproject.toml", settings.Manifest)
	})

	t.Run("should read the token from a file", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		tokenPath := writeFile(t, dir, "token", "ghp_from_file\n")
		path := writeFile(t, dir, "settings.yaml", "token: "+tokenPath+"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_from_file", settings.Token)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := writeFile(t, dir, "settings.yaml", "concurrency: 0\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		assert.ErrorContains(t, err, "concurrency must be positive")
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		assert.Error(t, err)
	})

	t.Run("should fail for malformed YAML", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeFile(t, t.TempDir(), "settings.yaml", "concurrency: [\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		assert.ErrorContains(t, err, "failed to parse settings file")
	})
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*entities.Settings)
		want   string
	}{
		{name: "should require a registry", mutate: func(s *entities.Settings) { s.RegistryURL = "" }, want: "registry_url"},
		{name: "should require a GitHub API", mutate: func(s *entities.Settings) { s.GitHubAPIURL = "" }, want: "github_api_url"},
		{name: "should require a timeout", mutate: func(s *entities.Settings) { s.HTTPTimeout = 0 }, want: "http_timeout"},
		{name: "should reject negative retries", mutate: func(s *entities.Settings) { s.MaxRetries = -1 }, want: "max_retries"},
		{name: "should require a manifest", mutate: func(s *entities.Settings) { s.Manifest = "" }, want: "manifest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			settings := entities.DefaultSettings()
			tt.mutate(settings)

			// when
			err := settings.Validate()

			// then
			assert.ErrorContains(t, err, tt.want)
		})
	}

	t.Run("should accept the defaults", func(t *testing.T) {
		t.Parallel()

		// when
		err := entities.DefaultSettings().Validate()

		// then
		assert.NoError(t, err)
	})
}

func TestSettingsLayout(t *testing.T) {
	t.Parallel()

	t.Run("should resolve relative paths below the root", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()
		settings.PreCommitConfig = "/etc/pre-commit.yaml"

		// when
		layout := settings.Layout("/work/project")

		// then
		assert.Equal(t, "/work/project", layout.RootDir)
		assert.Equal(t, "/work/project/pyproject.toml", layout.Manifest)
		assert.Equal(t, "/work/project/.github/workflows", layout.WorkflowsDir)
		assert.Equal(t, "/etc/pre-commit.yaml", layout.PreCommitConfig)
	})
}
