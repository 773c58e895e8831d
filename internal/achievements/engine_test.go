package achievements

import (
	"testing"
	"time"

	"github.com/amaumene/trackarr/internal/models"
	"github.com/amaumene/trackarr/internal/stats"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Catalog() {
		if seen[def.ID] {
			t.Errorf("Duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true

		if def.UnlockWhen == nil {
			t.Errorf("Achievement %q has no predicate", def.ID)
		}
	}
}

func TestEvaluateUnlocksIsIdempotent(t *testing.T) {
	engine := NewEngine(Catalog())
	snapshot := stats.Snapshot{
		LibraryCount:     30,
		RatedCount:       12,
		CompletedCount:   11,
		MediaTypeCount:   3,
		TopGenresCount:   5,
		MovieGoalReached: true,
	}

	first := engine.EvaluateUnlocks(snapshot)
	second := engine.EvaluateUnlocks(snapshot)

	if len(first) == 0 {
		t.Fatal("Expected unlocks for a well-populated snapshot")
	}
	if len(first) != len(second) {
		t.Fatalf("Expected identical results, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Position %d: %q then %q (order must be stable)", i, first[i].ID, second[i].ID)
		}
	}
}

func TestEvaluateUnlocksPreservesCatalogOrder(t *testing.T) {
	engine := NewEngine(Catalog())
	snapshot := stats.Snapshot{LibraryCount: 100, RatedCount: 100, CompletedCount: 100}

	position := make(map[string]int)
	for i, def := range engine.Catalog() {
		position[def.ID] = i
	}

	unlocked := engine.EvaluateUnlocks(snapshot)
	for i := 1; i < len(unlocked); i++ {
		if position[unlocked[i-1].ID] > position[unlocked[i].ID] {
			t.Errorf("Unlocked list not in catalog order: %q before %q", unlocked[i-1].ID, unlocked[i].ID)
		}
	}
}

func TestLibraryThresholdMonotonicity(t *testing.T) {
	engine := NewEngine(Catalog())

	unlockedAt := func(count int) bool {
		for _, def := range engine.EvaluateUnlocks(stats.Snapshot{LibraryCount: count}) {
			if def.ID == "collector-library-25" {
				return true
			}
		}
		return false
	}

	if unlockedAt(24) {
		t.Error("collector-library-25 should be locked at 24 items")
	}
	if !unlockedAt(25) {
		t.Error("collector-library-25 should unlock at 25 items")
	}
	// Growing the library never re-locks a threshold achievement
	for count := 25; count <= 60; count += 5 {
		if !unlockedAt(count) {
			t.Errorf("collector-library-25 re-locked at %d items", count)
		}
	}
}

func TestFindNewlyUnlockedSurfacesOnePerPass(t *testing.T) {
	always := func(stats.Snapshot) bool { return true }
	catalog := []Definition{
		{ID: "first", Title: "A", UnlockWhen: always},
		{ID: "second", Title: "B", UnlockWhen: always},
		{ID: "third", Title: "C", UnlockWhen: always},
	}
	engine := NewEngine(catalog)

	unlocked := engine.EvaluateUnlocks(stats.Snapshot{})
	if len(unlocked) != 3 {
		t.Fatalf("Expected 3 unlocks, got %d", len(unlocked))
	}

	seen := make(map[string]bool)

	newly, ok := FindNewlyUnlocked(unlocked, seen)
	if !ok || newly.ID != "first" {
		t.Fatalf("Expected first, got %v (ok=%v)", newly.ID, ok)
	}
	seen[newly.ID] = true

	newly, ok = FindNewlyUnlocked(unlocked, seen)
	if !ok || newly.ID != "second" {
		t.Fatalf("Expected second after marking first seen, got %v (ok=%v)", newly.ID, ok)
	}
	seen[newly.ID] = true
	seen["third"] = true

	if _, ok := FindNewlyUnlocked(unlocked, seen); ok {
		t.Error("Expected no newly unlocked once all are seen")
	}
}

func TestLookupByID(t *testing.T) {
	engine := NewEngine(Catalog())

	def, ok := engine.LookupByID("goals-first-win")
	if !ok {
		t.Fatal("goals-first-win should exist in the catalog")
	}
	if def.Category != CategoryGoals {
		t.Errorf("Expected category %q, got %q", CategoryGoals, def.Category)
	}

	if _, ok := engine.LookupByID("no-such-achievement"); ok {
		t.Error("Unknown id should not resolve")
	}
}

// End-to-end: 25 tracked movies, 10 rated, movie goal 3 met with 4 completions
// this month, game goal 2 with none.
func TestLibraryScenario(t *testing.T) {
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	added := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	var items []*models.TrackedItem
	for i := 0; i < 25; i++ {
		item := &models.TrackedItem{
			ExternalID: int64(i + 1),
			MediaType:  models.MediaTypeMovie,
			Title:      "movie",
			Status:     models.StatusCompleted,
			DateAdded:  added,
		}
		if i < 10 {
			rating := float64(i)/2 + 0.5
			item.Rating = &rating
		}
		if i < 4 {
			watched := time.Date(2024, time.March, i+1, 20, 0, 0, 0, time.UTC)
			item.WatchedAt = &watched
		} else {
			watched := time.Date(2024, time.February, 10, 20, 0, 0, 0, time.UTC)
			item.WatchedAt = &watched
		}
		items = append(items, item)
	}

	goals := stats.GoalTargets{MovieGoal: 3, GameGoal: 2}
	snapshot := stats.BuildSnapshot(items, nil, nil, nil, goals, now)

	if snapshot.LibraryCount != 25 {
		t.Errorf("Expected library count 25, got %d", snapshot.LibraryCount)
	}
	if snapshot.RatedCount != 10 {
		t.Errorf("Expected rated count 10, got %d", snapshot.RatedCount)
	}
	if !snapshot.MovieGoalReached {
		t.Error("Movie goal should be reached with 4 completions against a target of 3")
	}
	if snapshot.GameGoalReached {
		t.Error("Game goal should not be reached with no completed games")
	}

	engine := NewEngine(Catalog())
	unlocked := make(map[string]bool)
	for _, def := range engine.EvaluateUnlocks(snapshot) {
		unlocked[def.ID] = true
	}

	if !unlocked["collector-library-25"] {
		t.Error("collector-library-25 should be unlocked")
	}
	if !unlocked["goals-first-win"] {
		t.Error("goals-first-win should be unlocked (movie goal alone suffices)")
	}
	if unlocked["goals-double-win"] {
		t.Error("goals-double-win should stay locked with only one goal met")
	}
}
