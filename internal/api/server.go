package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/api/handlers"
	"github.com/amaumene/trackarr/internal/api/middleware"
	"github.com/amaumene/trackarr/internal/config"
	"github.com/amaumene/trackarr/internal/controllers"
	"github.com/amaumene/trackarr/internal/models"
	"github.com/amaumene/trackarr/internal/preferences"
)

// Server represents the HTTP server
type Server struct {
	server          *http.Server
	db              *models.Database
	statsCtrl       *controllers.StatsController
	achievementCtrl *controllers.AchievementController
	prefStore       *preferences.Store
	logger          *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, statsCtrl *controllers.StatsController, achievementCtrl *controllers.AchievementController, prefStore *preferences.Store, logger *logrus.Logger) *Server {
	s := &Server{
		db:              db,
		statsCtrl:       statsCtrl,
		achievementCtrl: achievementCtrl,
		prefStore:       prefStore,
		logger:          logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.db, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Tracked items
	itemsHandler := handlers.NewItemsHandler(s.db, s.logger)
	mux.HandleFunc("/api/items", itemsHandler.ServeHTTP)
	itemHandler := handlers.NewItemHandler(s.db, s.logger)
	mux.HandleFunc("/api/items/", itemHandler.ServeHTTP)

	// Derived statistics
	statsHandler := handlers.NewStatsHandler(s.statsCtrl, s.logger)
	mux.HandleFunc("/api/stats", statsHandler.ServeHTTP)

	// Season-change detection
	seasonsHandler := handlers.NewSeasonsHandler(s.statsCtrl, s.logger)
	mux.HandleFunc("/api/seasons", seasonsHandler.ServeHTTP)

	// Achievements
	achievementsHandler := handlers.NewAchievementsHandler(s.achievementCtrl, s.logger)
	mux.HandleFunc("/api/achievements", achievementsHandler.ServeHTTP)

	// Preferences
	preferencesHandler := handlers.NewPreferencesHandler(s.prefStore, s.logger)
	mux.HandleFunc("/api/preferences", preferencesHandler.ServeHTTP)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
