package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// OutdatedController prints every dependency whose specifier excludes the latest version.
type OutdatedController struct {
	command  commands.Outdated
	settings entities.SettingsLoader
}

// NewOutdatedController creates a new OutdatedController.
func NewOutdatedController(command commands.Outdated, settings entities.SettingsLoader) *OutdatedController {
	return &OutdatedController{command: command, settings: settings}
}

func (it *OutdatedController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "outdated",
		Short: "List the dependencies that need updating",
		Long: `Fetch the latest version of every dependency concurrently and list those
whose specifier does not allow it. Lookups that fail are reported one by one.`,
	}
}

func (it *OutdatedController) AddFlags(_ *cobra.Command) {}

func (it *OutdatedController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, it.settings)
	if err != nil {
		return err
	}

	result, err := it.command.Execute(context.Background(), settings, projectOptions(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Outdated) == 0 {
		_, _ = fmt.Fprintln(out, styleSpecifier.Render("All dependencies are up to date!"))
	} else {
		lines := make([]string, 0, len(result.Outdated))
		for _, dep := range result.Outdated {
			lines = append(lines, dependencyLine(dep, true)+" "+styleLabel.Render(dep.DisplayLabel()))
		}
		_, _ = fmt.Fprintln(out, panel("Outdated Dependencies", strings.Join(lines, "\n")))
	}
	writeFailures(out, result.Failures)
	return nil
}
