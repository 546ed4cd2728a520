// Package app implements the main application commands.
package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/datastore-web/datastore/internal/config"
	"github.com/datastore-web/datastore/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "datastore",
		Short: "Data Store is the web front of the data storage service",
		Long: `Data Store is the web front of the data storage service.
It signs users in and out, registers new accounts and guides
new users through onboarding before they reach the dashboard.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "path to the directory holding main.toml")
}

// loadConfig reads the configuration and initializes the global logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	if err = logger.Init(cfg.Log); err != nil {
		return err //nolint:wrapcheck
	}

	log.Debug().Str("config", configPath).Msg("configuration loaded")

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
