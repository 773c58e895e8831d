package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/achievements"
	"github.com/amaumene/trackarr/internal/controllers"
	"github.com/amaumene/trackarr/internal/models"
)

// AchievementsHandler serves the achievement catalog with unlock state
type AchievementsHandler struct {
	achievementCtrl *controllers.AchievementController
	logger          *logrus.Logger
}

// NewAchievementsHandler creates a new achievements handler
func NewAchievementsHandler(achievementCtrl *controllers.AchievementController, logger *logrus.Logger) *AchievementsHandler {
	return &AchievementsHandler{
		achievementCtrl: achievementCtrl,
		logger:          logger,
	}
}

// AchievementView is one catalog entry with its unlock state for display
type AchievementView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    string        `json:"category"`
	Rarity      models.Rarity `json:"rarity"`
	Unlocked    bool          `json:"unlocked"`
}

// AchievementsResponse groups catalog entries by category, catalog order
// preserved within each group
type AchievementsResponse struct {
	Categories    map[string][]AchievementView `json:"categories"`
	UnlockedCount int                          `json:"unlocked_count"`
	TotalCount    int                          `json:"total_count"`
	NewlyUnlocked *achievements.Definition     `json:"newly_unlocked,omitempty"`
}

// ServeHTTP handles the achievements endpoint. Serving the list runs a full
// evaluation pass, so a newly-unlocked achievement may surface here.
func (h *AchievementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.achievementCtrl.RunEvaluation(r.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Evaluation pass failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	unlockedIDs := make(map[string]bool, len(result.Unlocked))
	for _, def := range result.Unlocked {
		unlockedIDs[def.ID] = true
	}

	response := AchievementsResponse{
		Categories:    make(map[string][]AchievementView),
		UnlockedCount: len(result.Unlocked),
		NewlyUnlocked: result.NewlyUnlocked,
	}

	for _, def := range h.achievementCtrl.Engine().Catalog() {
		response.TotalCount++
		response.Categories[def.Category] = append(response.Categories[def.Category], AchievementView{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			Rarity:      def.Rarity,
			Unlocked:    unlockedIDs[def.ID],
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
