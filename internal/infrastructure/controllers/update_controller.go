package controllers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// UpdateController bumps one dependency and opens a pull request.
type UpdateController struct {
	command  commands.Update
	settings entities.SettingsLoader
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update, settings entities.SettingsLoader) *UpdateController {
	return &UpdateController{command: command, settings: settings}
}

func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update <dependency>",
		Short: "Update a dependency on a new branch and open a pull request",
		Long: `Update one dependency to its latest version (or --version), on a new branch.
The declaration is rewritten in place, CHANGELOG.md gets an entry when present,
and the change is committed, pushed, and proposed as a pull request.`,
	}
}

func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("version", "", "Version to update to instead of the latest release")
	cmd.Flags().Bool("no-pr", false, "Commit on the new branch without pushing or opening a pull request")
}

func (it *UpdateController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errMissingName
	}
	settings, err := loadSettings(cmd, it.settings)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noPR, _ := cmd.Flags().GetBool("no-pr")
	version, _ := cmd.Flags().GetString("version")
	token, _ := cmd.Flags().GetString("token")

	result, err := it.command.Execute(context.Background(), settings, commands.UpdateOptions{
		ProjectOptions: projectOptions(cmd),
		UpdateOptions: entities.UpdateOptions{
			TargetVersion: version,
			DryRun:        dryRun,
			SkipPR:        noPR,
			Token:         token,
		},
		Name: args[0],
	})
	if err != nil {
		return reportLookup(cmd, err)
	}

	out := cmd.OutOrStdout()
	switch {
	case result.Skipped:
		_, _ = fmt.Fprintf(out, "%s is up to date (%s).\n", result.Dependency.Name(), result.To)
	case dryRun:
		_, _ = fmt.Fprintf(out, "Would update %s from %s to %s on %s.\n",
			result.Dependency.Name(), result.From, result.To, result.Branch)
	default:
		_, _ = fmt.Fprintf(out, "Updated %s from %s to %s on %s.\n",
			result.Dependency.Name(), result.From, result.To, result.Branch)
		for _, file := range result.Files {
			_, _ = fmt.Fprintln(out, "  "+styleLabel.Render(iconArrow)+" "+file)
		}
		if result.PullRequest != nil {
			_, _ = fmt.Fprintf(out, "Pull request: %s\n", result.PullRequest.URL)
		}
	}
	return nil
}
