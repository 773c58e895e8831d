package achievements

import (
	"github.com/amaumene/trackarr/internal/models"
	"github.com/amaumene/trackarr/internal/stats"
)

// Achievement categories
const (
	CategoryGoals      = "Objetivos"
	CategoryDiscovery  = "Descubrimiento"
	CategoryCollecting = "Coleccionismo"
)

// Definition is one static catalog entry. IDs are persistence keys for seen
// state and must never be reused or renumbered once shipped.
type Definition struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    string        `json:"category"`
	Rarity      models.Rarity `json:"rarity"` // display only, no effect on unlock logic

	// UnlockWhen is a pure, deterministic predicate over a stats snapshot.
	// Predicates are expected to be monotone (stats only grow), though the
	// engine does not enforce it.
	UnlockWhen func(s stats.Snapshot) bool `json:"-"`
}

// Catalog returns the fixed achievement catalog in definition order.
// Evaluation and newly-unlocked selection both follow this order.
func Catalog() []Definition {
	return []Definition{
		{
			ID:          "collector-library-5",
			Title:       "Primeros pasos",
			Description: "Añade 5 títulos a tu biblioteca",
			Icon:        "📚",
			Category:    CategoryCollecting,
			Rarity:      models.RarityCommon,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.LibraryCount >= 5 },
		},
		{
			ID:          "collector-library-25",
			Title:       "Coleccionista",
			Description: "Añade 25 títulos a tu biblioteca",
			Icon:        "🗂️",
			Category:    CategoryCollecting,
			Rarity:      models.RarityRare,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.LibraryCount >= 25 },
		},
		{
			ID:          "collector-library-50",
			Title:       "Archivista",
			Description: "Añade 50 títulos a tu biblioteca",
			Icon:        "🏛️",
			Category:    CategoryCollecting,
			Rarity:      models.RarityEpic,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.LibraryCount >= 50 },
		},
		{
			ID:          "collector-rated-10",
			Title:       "Crítico",
			Description: "Puntúa 10 títulos",
			Icon:        "⭐",
			Category:    CategoryCollecting,
			Rarity:      models.RarityCommon,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.RatedCount >= 10 },
		},
		{
			ID:          "collector-completed-10",
			Title:       "Maratonista",
			Description: "Completa 10 títulos",
			Icon:        "🏁",
			Category:    CategoryCollecting,
			Rarity:      models.RarityRare,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.CompletedCount >= 10 },
		},
		{
			ID:          "collector-completed-50",
			Title:       "Imparable",
			Description: "Completa 50 títulos",
			Icon:        "🚀",
			Category:    CategoryCollecting,
			Rarity:      models.RarityLegendary,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.CompletedCount >= 50 },
		},
		{
			ID:          "discovery-all-media-types",
			Title:       "Todoterreno",
			Description: "Sigue películas, series y juegos a la vez",
			Icon:        "🎭",
			Category:    CategoryDiscovery,
			Rarity:      models.RarityRare,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.MediaTypeCount >= 3 },
		},
		{
			ID:          "discovery-genres-5",
			Title:       "Explorador",
			Description: "Reúne 5 géneros distintos en tu top",
			Icon:        "🧭",
			Category:    CategoryDiscovery,
			Rarity:      models.RarityCommon,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.TopGenresCount >= 5 },
		},
		{
			ID:          "goals-first-win",
			Title:       "Primera victoria",
			Description: "Cumple tu objetivo mensual de películas o juegos",
			Icon:        "🎯",
			Category:    CategoryGoals,
			Rarity:      models.RarityCommon,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.MovieGoalReached || s.GameGoalReached },
		},
		{
			ID:          "goals-double-win",
			Title:       "Doblete",
			Description: "Cumple ambos objetivos mensuales en el mismo mes",
			Icon:        "🏆",
			Category:    CategoryGoals,
			Rarity:      models.RarityEpic,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.MovieGoalReached && s.GameGoalReached },
		},
		{
			ID:          "goals-streak-3",
			Title:       "Constancia",
			Description: "Cumple objetivos en 3 periodos",
			Icon:        "🔥",
			Category:    CategoryGoals,
			Rarity:      models.RarityRare,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.GoalSuccessCount >= 3 },
		},
		{
			ID:          "goals-veteran-12",
			Title:       "Veterano",
			Description: "Cumple objetivos en 12 periodos",
			Icon:        "🎖️",
			Category:    CategoryGoals,
			Rarity:      models.RarityLegendary,
			UnlockWhen:  func(s stats.Snapshot) bool { return s.GoalSuccessCount >= 12 },
		},
	}
}
