package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// ListController prints the dependency inventory of a project.
type ListController struct {
	command  commands.List
	settings entities.SettingsLoader
}

// NewListController creates a new ListController.
func NewListController(command commands.List, settings entities.SettingsLoader) *ListController {
	return &ListController{command: command, settings: settings}
}

func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List the dependencies of a project",
		Long: `List the base, optional, and group dependencies declared in pyproject.toml,
the GitHub Actions used by the CI workflows, and the pre-commit hooks.`,
	}
}

func (it *ListController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("fetch", false, "Also fetch and show the latest version of every dependency")
}

func (it *ListController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd, it.settings)
	if err != nil {
		return err
	}
	fetch, _ := cmd.Flags().GetBool("fetch")

	result, err := it.command.Execute(context.Background(), settings, commands.ListOptions{
		ProjectOptions: projectOptions(cmd),
		Fetch:          fetch,
	})
	if err != nil {
		return err
	}

	writeProject(cmd.OutOrStdout(), result.Project, fetch)
	writeFailures(cmd.OutOrStdout(), result.Failures)
	return nil
}
