package cmd

import (
	"restaurant-delivery-lab/internal/database"
	"restaurant-delivery-lab/internal/evaluation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the evaluation harness against the delivery store",
	Long: `Measure query latency with and without secondary indexes, exercise
transactional commit and rollback paths, measure bulk-insert scalability,
and probe constraint enforcement. Results are written as a CSV report.`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Delivery.Path)
	if err != nil {
		return err
	}
	defer database.Close(db)

	harness := evaluation.NewHarness(db, cfg.Evaluate.Repetitions, cfg.Evaluate.BulkSizes)
	results, err := harness.RunAll()
	if err != nil {
		return err
	}

	if err := evaluation.WriteReport(cfg.Evaluate.ReportPath, results); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Evaluate.ReportPath).Int("results", len(results)).Msg("Evaluation report written")
	return nil
}
