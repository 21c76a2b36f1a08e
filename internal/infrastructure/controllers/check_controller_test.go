//go:build unit

package controllers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/infrastructure/controllers"
	commanddoubles "github.com/robbievanleeuwen/upgrade-dependencies/test/domain/commanddoubles"
	builders "github.com/robbievanleeuwen/upgrade-dependencies/test/domain/entitybuilders"
	doubles "github.com/robbievanleeuwen/upgrade-dependencies/test/infrastructure/repositorydoubles"
)

func fetchedAction(t *testing.T, latest string) *entities.ReleaseDependency {
	t.Helper()

	dep := builders.NewReleaseDependencyBuilder().WithUses("actions/checkout@v3").BuildDependency()
	releases := &doubles.StubReleaseRepository{Tags: map[string]string{"actions/checkout": latest}}
	require.NoError(t, dep.Fetch(context.Background(), doubles.Sources(nil, releases)))
	return dep
}

func TestCheckController(t *testing.T) {
	t.Parallel()

	t.Run("should report a dependency that needs updating", func(t *testing.T) {
		t.Parallel()

		// given
		dep := fetchedAction(t, "v4.1.1")
		command := &commanddoubles.StubCheckCommand{Result: &commands.CheckResult{
			Dependency:  dep,
			Latest:      entities.MustParseVersion("v4.1.1"),
			NeedsUpdate: true,
		}}
		controller := controllers.NewCheckController(command, newSettingsSpy().load)

		// when
		out, err := run(controller, "actions/checkout")

		// then
		require.NoError(t, err)
		assert.Equal(t, "actions/checkout", command.LastOptions.Name)
		assert.Contains(t, out, "Dependency Check")
		assert.Contains(t, out, "Needs updating!")
		assert.Contains(t, out, "uses: actions/checkout@v3")
		assert.Contains(t, out, "Latest version:")
		assert.Contains(t, out, "v4.1.1")
	})

	t.Run("should report an up to date dependency", func(t *testing.T) {
		t.Parallel()

		// given
		dep := fetchedAction(t, "v3.6.0")
		command := &commanddoubles.StubCheckCommand{Result: &commands.CheckResult{
			Dependency: dep,
			Latest:     entities.MustParseVersion("v3.6.0"),
		}}
		controller := controllers.NewCheckController(command, newSettingsSpy().load)

		// when
		out, err := run(controller, "actions/checkout")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Up to date!")
	})

	t.Run("should show the repository a hook is pinned from", func(t *testing.T) {
		t.Parallel()

		// given
		hook := builders.NewReleaseDependencyBuilder().WithHook("https://github.com/psf/black", "23.1.0").BuildDependency()
		command := &commanddoubles.StubCheckCommand{Result: &commands.CheckResult{
			Dependency: hook,
			Latest:     entities.MustParseVersion("24.3.1"),
		}}
		controller := controllers.NewCheckController(command, newSettingsSpy().load)

		// when
		out, err := run(controller, "psf/black")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "repo: https://github.com/psf/black")
		assert.NotContains(t, out, "uses:")
	})

	t.Run("should print the lookup failure and return it", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubCheckCommand{
			Err: &entities.LookupError{Name: "scipy", Scope: "concreteproperties"},
		}
		controller := controllers.NewCheckController(command, newSettingsSpy().load)

		// when
		out, err := run(controller, "scipy")

		// then
		assert.ErrorIs(t, err, entities.ErrDependencyNotFound)
		assert.Contains(t, out, "Cannot find scipy in concreteproperties.")
	})

	t.Run("should require a dependency name", func(t *testing.T) {
		t.Parallel()

		// given
		command := &commanddoubles.StubCheckCommand{}
		controller := controllers.NewCheckController(command, newSettingsSpy().load)

		// when
		_, err := run(controller)

		// then
		assert.EqualError(t, err, "a dependency name is required")
		assert.Zero(t, command.CallCount)
	})

	t.Run("should override the token from the flag", func(t *testing.T) {
		t.Parallel()

		// given
		settings := newSettingsSpy()
		command := &commanddoubles.StubCheckCommand{Result: &commands.CheckResult{
			Dependency: fetchedAction(t, "v3.6.0"),
			Latest:     entities.MustParseVersion("v3.6.0"),
		}}
		controller := controllers.NewCheckController(command, settings.load)

		// when
		_, err := run(controller, "actions/checkout", "--token", "ghp_flag")

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_flag", settings.settings.Token)
	})
}
