package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"restaurant-delivery-lab/internal/api"
	"restaurant-delivery-lab/internal/cache"
	"restaurant-delivery-lab/internal/database"
	"restaurant-delivery-lab/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Start the recommendation dashboard server",
	Long: `Start the HTTP server that answers filtered restaurant
recommendation queries over the historical store.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	db, err := database.Connect(cfg.History.Path)
	if err != nil {
		return err
	}
	defer database.Close(db)

	recommendationCache, err := cache.NewRecommendationCache(cfg.Redis, cfg.Dashboard.CacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
		recommendationCache = nil
	}

	service := services.NewRecommendationService(db, recommendationCache)
	server := api.NewServer(cfg, service)

	// Start the server
	g.Go(func() error {
		return server.Start()
	})

	// Periodically warm the cache for the unfiltered preset rankings
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Dashboard.WarmInterval),
			gocron.NewTask(func() {
				log.Info().Msg("Warming recommendation presets")
				service.WarmPresets(context.Background())
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	// Wait for termination signal
	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Dashboard error")
		return err
	}

	log.Info().Msg("Dashboard shutting down gracefully")
	return nil
}
