package cmd

import (
	"os"

	"restaurant-delivery-lab/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "restaurant-delivery-lab",
	Short: "Synthetic restaurant-delivery dataset and query lab",
	Long: `A toolkit that seeds a synthetic restaurant-delivery dataset, loads a
historical delivery dataset, evaluates query performance and constraint
enforcement against the local store, and serves a recommendation dashboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize()
}

// loadConfig reads configuration and applies environment-dependent logging
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return config.Config{}, err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	return cfg, nil
}
