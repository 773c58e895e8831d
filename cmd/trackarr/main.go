package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/trackarr/internal/achievements"
	"github.com/amaumene/trackarr/internal/api"
	"github.com/amaumene/trackarr/internal/config"
	"github.com/amaumene/trackarr/internal/controllers"
	"github.com/amaumene/trackarr/internal/models"
	"github.com/amaumene/trackarr/internal/preferences"
	"github.com/amaumene/trackarr/internal/scheduler"
	"github.com/amaumene/trackarr/internal/services/igdb"
	"github.com/amaumene/trackarr/internal/services/tmdb"
	"github.com/amaumene/trackarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Trackarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Load preferences
	prefStore, err := preferences.NewStore(cfg.PreferencesFile, cfg.MovieGoal, cfg.GameGoal)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	logger.Info("Preferences loaded")

	// 5. Initialize content-API clients
	tmdbClient := tmdb.NewClient(cfg, logger)
	logger.Info("TMDB client initialized")

	igdbClient := igdb.NewClient(cfg, logger)
	logger.Info("IGDB client initialized")

	// 6. Initialize achievement engine and controllers
	engine := achievements.NewEngine(achievements.Catalog())
	statsCtrl := controllers.NewStatsController(db, tmdbClient, igdbClient, prefStore, logger)
	achievementCtrl := controllers.NewAchievementController(statsCtrl, engine, prefStore, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(statsCtrl, achievementCtrl, cfg.EvalIntervalMinutes, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, db, statsCtrl, achievementCtrl, prefStore, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Trackarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Trackarr stopped")
	return nil
}
