package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/controllers"
)

// SeasonsHandler reports tracked shows that have grown seasons since add
type SeasonsHandler struct {
	statsCtrl *controllers.StatsController
	logger    *logrus.Logger
}

// NewSeasonsHandler creates a new seasons handler
func NewSeasonsHandler(statsCtrl *controllers.StatsController, logger *logrus.Logger) *SeasonsHandler {
	return &SeasonsHandler{
		statsCtrl: statsCtrl,
		logger:    logger,
	}
}

// ServeHTTP handles the season-change endpoint
func (h *SeasonsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	changes, err := h.statsCtrl.DetectSeasonChanges(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to detect season changes")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if changes == nil {
		changes = []controllers.SeasonChange{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(changes)
}
