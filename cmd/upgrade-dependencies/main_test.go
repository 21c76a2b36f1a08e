//go:build unit

package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

func TestInjectAppContext(t *testing.T) {
	t.Parallel()

	t.Run("should mount every controller as a subcommand", func(t *testing.T) {
		t.Parallel()

		// given
		root := buildRootCommand()

		// when
		addSubcommands(root, injectAppContext())

		// then
		names := make([]string, 0, len(root.Commands()))
		for _, sub := range root.Commands() {
			names = append(names, sub.Name())
		}
		assert.ElementsMatch(t, []string{"list", "check", "outdated", "update"}, names)

		update, _, err := root.Find([]string{"update"})
		require.NoError(t, err)
		assert.NotNil(t, update.Flags().Lookup("version"))
		assert.NotNil(t, update.Flags().Lookup("no-pr"))
		assert.NotNil(t, update.InheritedFlags().Lookup("dry-run"))
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unknown dependency",
			err:  &entities.LookupError{Name: "scipy", Scope: "demo"},
			want: exitNotFound,
		},
		{
			name: "wrapped unknown dependency",
			err:  fmt.Errorf("check: %w", &entities.LookupError{Name: "scipy", Scope: "demo"}),
			want: exitNotFound,
		},
		{
			name: "any other failure",
			err:  errors.New("boom"),
			want: exitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			err := tt.err

			// when
			code := exitCode(err)

			// then
			assert.Equal(t, tt.want, code)
		})
	}
}
