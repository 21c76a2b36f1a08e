//go:build unit

package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/manifest"
)

const pyprojectFixture = `[build-system]
requires = ["hatchling"]
build-backend = "hatchling.build"

[project]
name = "concreteproperties"
dependencies = [
  "numpy>=1.26",  # arrays
  'matplotlib[qt]>=3.8,<4; python_version >= "3.10"',
]

[project.optional-dependencies]
dev = ["black==23.1.0"]
numba = ["numba>=0.58"]

[dependency-groups]
test = ["pytest==8.0.0", {include-group = "lint"}]
lint = ["ruff==0.4.0"]
`

const ciWorkflowFixture = `name: CI
on: [push]

env:
  UV_VERSION: "0.4.18"

jobs:
  test:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3
      - uses: astral-sh/setup-uv@v3
        with:
          version: ${{ env.UV_VERSION }}
      - uses: ./.github/actions/local
`

const releaseWorkflowFixture = `name: Release
on:
  release:
    types: [published]

jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3 # pinned major
      - uses: docker://alpine:3.19
`

const preCommitFixture = `repos:
  - repo: https://github.com/psf/black
    rev: 23.1.0
    hooks:
      - id: black
  - repo: local
    hooks:
      - id: pytest
        name: pytest
        entry: pytest
        language: system
  - repo: https://github.com/astral-sh/ruff-pre-commit
    rev: "v0.1.0"
    hooks:
      - id: ruff
`

// writeProject lays out a complete project below a temporary directory.
func writeProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"pyproject.toml":                 pyprojectFixture,
		".github/workflows/ci.yml":       ciWorkflowFixture,
		".github/workflows/release.yaml": releaseWorkflowFixture,
		".github/workflows/README.md":    "not a workflow",
		".pre-commit-config.yaml":        preCommitFixture,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func loadProject(t *testing.T, dir string) *entities.Project {
	t.Helper()

	project, err := manifest.NewProjectRepository().Load(entities.DefaultSettings().Layout(dir))
	require.NoError(t, err)
	return project
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
