//go:build unit

package shell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/repositories/shell"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("should return the trimmed standard output", func(t *testing.T) {
		t.Parallel()

		// when
		output, err := shell.Run(context.Background(), t.TempDir(), "sh", "-c", "echo '  hello  '")

		// then
		require.NoError(t, err)
		assert.Equal(t, "hello", output)
	})

	t.Run("should capture stderr of a failing command", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := shell.Run(context.Background(), t.TempDir(), "sh", "-c", "echo denied >&2; exit 3")

		// then
		require.Error(t, err)
		var shellErr *entities.ShellCommandError
		require.True(t, errors.As(err, &shellErr))
		assert.Equal(t, "sh", shellErr.Command)
		assert.Contains(t, shellErr.Stderr, "denied")
		assert.ErrorIs(t, err, entities.ErrShellCommand)
	})
}
