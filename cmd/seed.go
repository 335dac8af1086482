package cmd

import (
	"restaurant-delivery-lab/internal/database"
	"restaurant-delivery-lab/internal/models"
	"restaurant-delivery-lab/internal/seed"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var seedOrders int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create and populate the synthetic delivery store",
	Long: `Apply the delivery schema to the configured store file, insert the
base catalogs, and generate the synthetic order dataset.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedOrders, "orders", 0, "number of orders to generate (overrides config)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Delivery.Path)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := models.SetupModels(db); err != nil {
		return errors.Wrap(err, "failed to apply delivery schema")
	}
	if err := models.CreateSecondaryIndexes(db); err != nil {
		return errors.Wrap(err, "failed to create secondary indexes")
	}
	log.Info().Str("path", cfg.Delivery.Path).Msg("Delivery schema applied")

	generator := seed.NewGenerator(db, cfg.Seed.BatchSize)
	if err := generator.SeedCatalogs(); err != nil {
		return err
	}

	n := cfg.Seed.Orders
	if seedOrders > 0 {
		n = seedOrders
	}
	return generator.GenerateOrders(n)
}
