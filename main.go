package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"sjsage522/housingworker/config"
	"sjsage522/housingworker/helpers"
	"sjsage522/housingworker/internal/api"
	"sjsage522/housingworker/internal/geo"
	"sjsage522/housingworker/internal/scraper"
	"sjsage522/housingworker/internal/snapshot"
	"sjsage522/housingworker/logger"
	"sjsage522/housingworker/services/cache"
	"sjsage522/housingworker/services/publisher"
	"sjsage522/housingworker/services/worker"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	app := &cli.App{
		Name:  "housingworker",
		Usage: "Scrape student housing near campus and serve it over HTTP.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "browser",
				Aliases: []string{"b"},
				Usage:   "Browser mode, chrome or static. Overrides BROWSER_MODE.",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the scheduled worker and the HTTP API.",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on. Overrides PORT.",
					},
				},
				Action: serve,
			},
			{
				Name:   "scrape",
				Usage:  "Run a single scrape and print the records as JSON.",
				Action: scrapeOnce,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logger.Default.Fatal().Err(err).Msg("housingworker failed")
	}
}

// loadConfig reads the environment and applies command line overrides
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if mode := c.String("browser"); mode != "" {
		cfg.BrowserMode = mode
	}
	if port := c.Int("port"); port > 0 {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Store     *snapshot.Store
	Worker    *worker.Worker
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices wires the cache, publisher, scrapers and worker
func initializeServices(cfg *config.Config) (*Services, error) {
	services := &Services{
		Cache:     cache.New(cfg.MemcacheAddr),
		Publisher: publisher.New(cfg),
		Store:     snapshot.NewStore(),
	}

	launcher, err := scraper.CreateLauncher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser launcher: %w", err)
	}
	pages, listings := scraper.CreateScrapers(cfg, launcher, services.Cache)

	schedule, err := worker.NewSchedule(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}

	services.Worker = worker.NewWorker(
		cfg.Targets,
		pages,
		listings,
		geo.NewResolver(nil),
		services.Store,
		services.Publisher,
		helpers.NewLogger("worker"),
		worker.Options{
			Pause:        cfg.TargetPause,
			Schedule:     schedule,
			RunOnStartup: cfg.ScrapeOnStartup,
		},
	)

	return services, nil
}

func serve(c *cli.Context) error {
	log := logger.Default

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("browser", cfg.BrowserMode).
		Int("targets", len(cfg.Targets)).
		Str("scrape_at", cfg.ScrapeAt).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Msg("Starting application")

	services, err := initializeServices(cfg)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(services.Store, services.Worker, api.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		log.Info().Msg("Starting housing worker")
		services.Worker.Start(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("RU Housing API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Received shutdown signal")
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server exited with error")
		stop()
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown")
	}
	<-workerDone
	return nil
}

func scrapeOnce(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	services, err := initializeServices(cfg)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := services.Worker.PerformFullScrape(ctx)
	if err != nil {
		return err
	}
	logger.Info("Scraped %d properties (%d failed targets) in %s", snap.Len(), snap.FailedTargets, snap.Duration)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"properties":     snap.Records,
		"lastScrapeTime": snap.LastScrape,
		"totalCount":     snap.Len(),
		"runId":          snap.RunID,
		"failedTargets":  snap.FailedTargets,
	})
}
