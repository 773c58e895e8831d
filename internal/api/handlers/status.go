package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/models"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalItems  int            `json:"total_items"`
	Planned     int            `json:"planned"`
	InProgress  int            `json:"in_progress"` // watching + playing
	Completed   int            `json:"completed"`
	Dropped     int            `json:"dropped"`
	Rated       int            `json:"rated"`
	ItemsByType map[string]int `json:"items_by_type"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.db.GetAllItems()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get items")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		TotalItems:  len(items),
		ItemsByType: make(map[string]int),
	}

	for _, item := range items {
		switch item.Status {
		case models.StatusPlanned:
			response.Planned++
		case models.StatusWatching, models.StatusPlaying:
			response.InProgress++
		case models.StatusCompleted:
			response.Completed++
		case models.StatusDropped:
			response.Dropped++
		}

		if item.Rating != nil {
			response.Rated++
		}

		response.ItemsByType[string(item.MediaType)]++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
