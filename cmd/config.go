package cmd

import (
	"fmt"
	"os"

	"github.com/cottand/fern/internal/config"
	"github.com/spf13/cobra"
)

var ConfigCmd = &cobra.Command{
	Use:          "config",
	Short:        "Manage the fern config file",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write a config file with the default settings",
	RunE:         runConfigInit,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

var overwriteConfig bool

func init() {
	configInitCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the config file")
	configInitCmd.Flags().BoolVarP(&overwriteConfig, "force", "f", false, "overwrite an existing config file")
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(configPath); err == nil && !overwriteConfig {
		return fmt.Errorf("%s already exists, use --force to overwrite it", configPath)
	}
	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}
	cmdLogger.Debug("wrote default config", "path", configPath)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
	return nil
}
