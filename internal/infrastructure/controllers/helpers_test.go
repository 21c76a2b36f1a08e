//go:build unit

package controllers_test

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// settingsSpy is a SettingsLoader recording the config paths it was asked for.
type settingsSpy struct {
	settings *entities.Settings
	err      error
	paths    []string
}

func newSettingsSpy() *settingsSpy {
	return &settingsSpy{settings: entities.DefaultSettings()}
}

func (s *settingsSpy) load(path string) (*entities.Settings, error) {
	s.paths = append(s.paths, path)
	return s.settings, s.err
}

// run mounts controller under a root command carrying the global flags and
// executes it with args, returning the captured output.
func run(controller entities.Controller, args ...string) (string, error) {
	root := &cobra.Command{Use: "upgrade-dependencies", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("config", "c", "", "")
	root.PersistentFlags().StringP("project-path", "p", "", "")
	root.PersistentFlags().String("token", "", "")
	root.PersistentFlags().Bool("dry-run", false, "")
	root.PersistentFlags().BoolP("verbose", "v", false, "")

	bind := controller.GetBind()
	sub := &cobra.Command{Use: bind.Use, Short: bind.Short, Long: bind.Long, RunE: controller.Execute}
	controller.AddFlags(sub)
	root.AddCommand(sub)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{sub.Name()}, args...))
	err := root.Execute()
	return out.String(), err
}
