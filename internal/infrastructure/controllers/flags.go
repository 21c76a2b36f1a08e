package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// loadSettings reads the settings selected by the global flags. A --token
// flag overrides any configured token.
func loadSettings(cmd *cobra.Command, load entities.SettingsLoader) (*entities.Settings, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	configPath, _ := cmd.Flags().GetString("config")
	settings, err := load(configPath)
	if err != nil {
		return nil, err
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		settings.Token = entities.ResolveToken(token)
	}
	return settings, nil
}

func projectOptions(cmd *cobra.Command) commands.ProjectOptions {
	projectPath, _ := cmd.Flags().GetString("project-path")
	return commands.ProjectOptions{ProjectPath: projectPath}
}
