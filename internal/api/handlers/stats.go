package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/controllers"
)

// StatsHandler serves the derived statistics snapshot
type StatsHandler struct {
	statsCtrl *controllers.StatsController
	logger    *logrus.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsCtrl *controllers.StatsController, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		statsCtrl: statsCtrl,
		logger:    logger,
	}
}

// ServeHTTP handles the stats endpoint
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := h.statsCtrl.BuildSnapshot(r.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build stats snapshot")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}
