package cmd

import (
	"restaurant-delivery-lab/internal/database"
	"restaurant-delivery-lab/internal/loader"
	"restaurant-delivery-lab/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var loadCSVPath string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the historical delivery dataset",
	Long: `Apply the recommender schema to the configured history store and
ingest the historical delivery CSV, skipping malformed rows.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadCSVPath, "csv", "", "path to the historical CSV file (overrides config)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.History.Path)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := models.SetupHistoryModels(db); err != nil {
		return errors.Wrap(err, "failed to apply recommender schema")
	}
	log.Info().Str("path", cfg.History.Path).Msg("Recommender schema applied")

	csvPath := cfg.History.CSVPath
	if loadCSVPath != "" {
		csvPath = loadCSVPath
	}

	_, err = loader.NewLoader(db).LoadCSV(csvPath)
	return err
}
