package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

var errMissingName = errors.New("a dependency name is required")

// CheckController reports whether one dependency needs an update.
type CheckController struct {
	command  commands.Check
	settings entities.SettingsLoader
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check, settings entities.SettingsLoader) *CheckController {
	return &CheckController{command: command, settings: settings}
}

func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check <dependency>",
		Short: "Check whether a dependency needs updating",
		Long: `Fetch the latest version of one dependency and compare it with the
specifier the project declares. Exits with status 1 when the dependency is unknown.`,
	}
}

func (it *CheckController) AddFlags(_ *cobra.Command) {}

func (it *CheckController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errMissingName
	}
	settings, err := loadSettings(cmd, it.settings)
	if err != nil {
		return err
	}

	result, err := it.command.Execute(context.Background(), settings, commands.CheckOptions{
		ProjectOptions: projectOptions(cmd),
		Name:           args[0],
	})
	if err != nil {
		return reportLookup(cmd, err)
	}

	verdict := styleSpecifier.Render("Up to date!")
	latest := styleSpecifier.Render(result.Latest.String())
	if result.NeedsUpdate {
		verdict = styleOutdated.Render("Needs updating!")
		latest = styleOutdated.Render(result.Latest.String())
	}
	body := dependencyLine(result.Dependency, false)
	if source := sourceLine(result.Dependency); source != "" {
		body += "\n" + source
	}
	body += "\n" + verdict + "\nLatest version: " + latest
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), panel("Dependency Check", body))
	return nil
}

// reportLookup prints the not-found message for unknown dependencies and
// passes every error on.
func reportLookup(cmd *cobra.Command, err error) error {
	var lookupErr *entities.LookupError
	if errors.As(err, &lookupErr) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cannot find %s in %s.\n", lookupErr.Name, lookupErr.Scope)
	}
	return err
}
