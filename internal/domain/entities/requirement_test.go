//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

func TestParseRequirement(t *testing.T) {
	t.Parallel()

	t.Run("should parse name, extras, specifier and marker", func(t *testing.T) {
		t.Parallel()

		// given
		raw := `httpx[http2, brotli]>=0.27; python_version > "3.9"`

		// when
		req, err := entities.ParseRequirement(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, "httpx", req.Name)
		assert.Equal(t, []string{"http2", "brotli"}, req.Extras)
		assert.Equal(t, ">=0.27", req.Specifier.String())
		assert.Equal(t, `python_version > "3.9"`, req.Marker)
		assert.Equal(t, `httpx[http2,brotli]>=0.27; python_version > "3.9"`, req.String())
	})

	t.Run("should accept a bare name", func(t *testing.T) {
		t.Parallel()

		// when
		req, err := entities.ParseRequirement("numpy")

		// then
		require.NoError(t, err)
		assert.Equal(t, "numpy", req.Name)
		assert.True(t, req.Specifier.IsEmpty())
	})

	t.Run("should accept the parenthesised specifier spelling", func(t *testing.T) {
		t.Parallel()

		// when
		req, err := entities.ParseRequirement("requests (>=2.0)")

		// then
		require.NoError(t, err)
		assert.Equal(t, ">=2.0", req.Specifier.String())
	})

	t.Run("should canonicalize the name", func(t *testing.T) {
		t.Parallel()

		// when
		req, err := entities.ParseRequirement("Foo_Bar.baz>=1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "foo-bar-baz", req.CanonicalName())
	})

	t.Run("should reject malformed requirements", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"pkg @ https://example.com/pkg.whl",
			"pkg[bad extra!]",
			"pkg>=>1.0",
			"-pkg",
		} {
			// when
			_, err := entities.ParseRequirement(raw)

			// then
			require.Error(t, err, raw)
			assert.ErrorIs(t, err, entities.ErrParse, raw)
		}
	})
}

func TestRequirementWithVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		version  string
		expected string
	}{
		{name: "should keep >= and drop the upper bound", raw: "requests>=2.0,<3.0", version: "2.32.0", expected: "requests>=2.32.0"},
		{name: "should keep ==", raw: "black==23.1.0", version: "24.3.1", expected: "black==24.3.1"},
		{name: "should keep ~=", raw: "foo~=1.4", version: "1.6", expected: "foo~=1.6"},
		{name: "should take the operator declared first", raw: "foo~=1.4,!=1.5", version: "1.6", expected: "foo~=1.6"},
		{name: "should use >= for an upper bound", raw: "foo<2", version: "2.5", expected: "foo>=2.5"},
		{name: "should use >= without a specifier", raw: "foo", version: "1.0", expected: "foo>=1.0"},
		{
			name:     "should keep extras and marker",
			raw:      "uvicorn[standard]>=0.20; sys_platform != 'win32'",
			version:  "0.30.1",
			expected: "uvicorn[standard]>=0.30.1; sys_platform != 'win32'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			req, err := entities.ParseRequirement(tt.raw)
			require.NoError(t, err)

			// when
			updated := req.WithVersion(tt.version)

			// then
			assert.Equal(t, tt.expected, updated.String())
			assert.Equal(t, tt.raw, req.String(), "the original requirement is left untouched")
		})
	}
}
