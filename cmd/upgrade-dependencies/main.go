package main

import (
	"errors"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

const (
	exitNotFound = 1
	exitFailure  = 2
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "upgrade-dependencies",
		Short: "Inventory and upgrade the dependencies of a Python project",
		Long: `Lists the dependencies of a Python project (pyproject.toml requirements,
GitHub Actions, pre-commit hooks, and the uv version pinned in CI), checks them
against PyPI and GitHub releases, and upgrades them one pull request at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().StringP("project-path", "p", "",
		"Path to the project (default: current directory)")
	cmd.PersistentFlags().String("token", "",
		"GitHub token (overrides the config file and "+entities.TokenEnvVar+")")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be done without making changes")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			RunE:  controller.Execute,
		}
		controller.AddFlags(subCmd)
		rootCmd.AddCommand(subCmd)
	}
}

// exitCode maps a failed command to the process status.
func exitCode(err error) int {
	if errors.Is(err, entities.ErrDependencyNotFound) {
		return exitNotFound
	}
	return exitFailure
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()
	addSubcommands(cobraRoot, injectAppContext())

	if err := cobraRoot.Execute(); err != nil {
		code := exitCode(err)
		if code != exitNotFound {
			logger.Errorf("Error executing 'upgrade-dependencies': %s", err)
		}
		os.Exit(code)
	}
}
