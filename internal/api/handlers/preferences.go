package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/preferences"
)

// PreferencesHandler handles goal-target configuration
type PreferencesHandler struct {
	prefStore *preferences.Store
	logger    *logrus.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(prefStore *preferences.Store, logger *logrus.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		prefStore: prefStore,
		logger:    logger,
	}
}

type goalsPayload struct {
	MovieGoal int `json:"movie_goal"`
	GameGoal  int `json:"game_goal"`
}

// ServeHTTP handles the preferences endpoint
func (h *PreferencesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		goals := h.prefStore.Goals()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goalsPayload{
			MovieGoal: goals.MovieGoal,
			GameGoal:  goals.GameGoal,
		})

	case http.MethodPut:
		var payload goalsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if err := h.prefStore.SetGoals(payload.MovieGoal, payload.GameGoal); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		h.logger.WithFields(logrus.Fields{
			"movie_goal": payload.MovieGoal,
			"game_goal":  payload.GameGoal,
		}).Info("Goal targets updated")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
