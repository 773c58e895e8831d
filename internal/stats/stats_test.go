package stats

import (
	"math"
	"testing"
	"time"

	"github.com/amaumene/trackarr/internal/models"
)

// Wednesday, March 20 2024. The current week runs Monday March 18 through
// Sunday March 24.
var testNow = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 18, 0, 0, 0, time.UTC)
	return &d
}

func ratingPtr(r float64) *float64 {
	return &r
}

func movieItem(id int64, added time.Time, watchedAt *time.Time, rating *float64) *models.TrackedItem {
	return &models.TrackedItem{
		ExternalID: id,
		MediaType:  models.MediaTypeMovie,
		Title:      "movie",
		Status:     models.StatusCompleted,
		DateAdded:  added,
		WatchedAt:  watchedAt,
		Rating:     rating,
	}
}

func TestEmptyCollection(t *testing.T) {
	snapshot := BuildSnapshot(nil, nil, nil, nil, GoalTargets{MovieGoal: 3, GameGoal: 2}, testNow)

	if snapshot.LibraryCount != 0 {
		t.Errorf("Expected library count 0, got %d", snapshot.LibraryCount)
	}
	if snapshot.RatedCount != 0 {
		t.Errorf("Expected rated count 0, got %d", snapshot.RatedCount)
	}
	if snapshot.CompletedCount != 0 {
		t.Errorf("Expected completed count 0, got %d", snapshot.CompletedCount)
	}
	if snapshot.MediaTypeCount != 0 {
		t.Errorf("Expected media type count 0, got %d", snapshot.MediaTypeCount)
	}
	if snapshot.WeeklyStreak != 0 {
		t.Errorf("Expected streak 0, got %d", snapshot.WeeklyStreak)
	}
	if snapshot.EstimatedHours.TotalHours != 0 {
		t.Errorf("Expected 0 total hours, got %f", snapshot.EstimatedHours.TotalHours)
	}
	if snapshot.MovieGoalReached || snapshot.GameGoalReached {
		t.Error("No goal should be reached on an empty collection")
	}
}

func TestAverageRating(t *testing.T) {
	added := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		movieItem(1, added, nil, ratingPtr(8)),
		movieItem(2, added, nil, ratingPtr(6)),
		movieItem(3, added, nil, nil), // unrated, must not drag the mean down
		{ExternalID: 4, MediaType: models.MediaTypeGame, DateAdded: added, Rating: ratingPtr(2)},
	}

	avg := AverageRating(items, models.MediaTypeMovie)
	if avg != 7 {
		t.Errorf("Expected average 7, got %f", avg)
	}

	if got := AverageRating(items, models.MediaTypeTV); got != 0 {
		t.Errorf("Expected 0 for media type with no rated items, got %f", got)
	}
}

func TestTopGenresTieBreak(t *testing.T) {
	added := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: added, Genres: []string{"Action", "Drama"}},
		{ExternalID: 2, MediaType: models.MediaTypeMovie, DateAdded: added, Genres: []string{"Action"}},
		{ExternalID: 3, MediaType: models.MediaTypeMovie, DateAdded: added, Genres: []string{"Comedy"}},
	}

	got := TopGenres(items, nil, 5)
	want := []string{"Action", "Drama", "Comedy"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q (ties must keep first-encountered order)", i, want[i], got[i])
		}
	}
}

func TestTopGenresMergesDetailAndLimits(t *testing.T) {
	added := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: added, Genres: []string{"Horror"}},
	}
	detail := [][]string{
		{"Horror", "Thriller"},
		{"Thriller", "Thriller"},
	}

	got := TopGenres(items, detail, 1)
	if len(got) != 1 {
		t.Fatalf("Expected 1 genre, got %d", len(got))
	}
	// Thriller count=3 beats Horror count=2
	if got[0] != "Thriller" {
		t.Errorf("Expected Thriller first, got %q", got[0])
	}
}

func TestWeeklyStreakGapBreaksChain(t *testing.T) {
	// Activity two weeks ago (week of March 4) and this week, nothing in
	// the week between: the gap breaks the chain at 1.
	items := []*models.TrackedItem{
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)},
		{ExternalID: 2, MediaType: models.MediaTypeMovie, DateAdded: time.Date(2024, time.March, 19, 10, 0, 0, 0, time.UTC)},
	}

	if streak := WeeklyStreak(items, testNow); streak != 1 {
		t.Errorf("Expected streak 1, got %d", streak)
	}
}

func TestWeeklyStreakConsecutiveWeeks(t *testing.T) {
	items := []*models.TrackedItem{
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)},
		{ExternalID: 2, MediaType: models.MediaTypeMovie, DateAdded: time.Date(2024, time.March, 19, 10, 0, 0, 0, time.UTC)},
	}

	if streak := WeeklyStreak(items, testNow); streak != 2 {
		t.Errorf("Expected streak 2, got %d", streak)
	}
}

func TestWeeklyStreakEmptyCurrentWeek(t *testing.T) {
	items := []*models.TrackedItem{
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)},
	}

	if streak := WeeklyStreak(items, testNow); streak != 0 {
		t.Errorf("Expected streak 0 when current week has no activity, got %d", streak)
	}
}

func TestWeeklyStreakCountsAllDateFields(t *testing.T) {
	// FinishedAt in the current week keeps the streak alive even though the
	// item was added long ago
	items := []*models.TrackedItem{
		{
			ExternalID: 1,
			MediaType:  models.MediaTypeGame,
			DateAdded:  time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
			FinishedAt: datePtr(2024, time.March, 20),
		},
	}

	if streak := WeeklyStreak(items, testNow); streak != 1 {
		t.Errorf("Expected streak 1, got %d", streak)
	}
}

func TestWeeklyActivityHistogram(t *testing.T) {
	oldAdd := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		// Monday March 18
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: oldAdd, WatchedAt: datePtr(2024, time.March, 18)},
		// Wednesday March 20, twice
		{ExternalID: 2, MediaType: models.MediaTypeTV, DateAdded: oldAdd, StartedAt: datePtr(2024, time.March, 20)},
		{ExternalID: 3, MediaType: models.MediaTypeGame, DateAdded: oldAdd, FinishedAt: datePtr(2024, time.March, 20)},
		// Sunday March 24
		{ExternalID: 4, MediaType: models.MediaTypeMovie, DateAdded: oldAdd, WatchedAt: datePtr(2024, time.March, 24)},
		// Previous week, must not count
		{ExternalID: 5, MediaType: models.MediaTypeMovie, DateAdded: oldAdd, WatchedAt: datePtr(2024, time.March, 15)},
	}

	buckets := WeeklyActivity(items, testNow)

	wantCounts := [7]int{1, 0, 2, 0, 0, 0, 1} // Mon..Sun
	for i, want := range wantCounts {
		if buckets[i].Count != want {
			t.Errorf("Day %d: expected count %d, got %d", i, want, buckets[i].Count)
		}
	}

	if buckets[2].Ratio != 1.0 {
		t.Errorf("Busiest day ratio should be 1.0, got %f", buckets[2].Ratio)
	}
	if buckets[0].Ratio != 0.5 {
		t.Errorf("Monday ratio should be 0.5, got %f", buckets[0].Ratio)
	}
}

func TestWeeklyActivityEmptyWeekRatios(t *testing.T) {
	buckets := WeeklyActivity(nil, testNow)
	for i, b := range buckets {
		if b.Count != 0 || b.Ratio != 0 {
			t.Errorf("Day %d: expected empty bucket, got count=%d ratio=%f", i, b.Count, b.Ratio)
		}
	}
}

func TestEstimatedHours(t *testing.T) {
	added := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	explicit := 2.5
	items := []*models.TrackedItem{
		// Explicit estimate wins over everything
		{ExternalID: 1, MediaType: models.MediaTypeMovie, DateAdded: added, EstimatedHours: &explicit},
		// Runtime lookup: 120 minutes
		{ExternalID: 2, MediaType: models.MediaTypeMovie, DateAdded: added},
		// No lookup: 110-minute fallback
		{ExternalID: 3, MediaType: models.MediaTypeMovie, DateAdded: added},
		// Completed show, no episode lookup: 8 x 0.75 x 1.0
		{ExternalID: 10, MediaType: models.MediaTypeTV, DateAdded: added, Status: models.StatusCompleted},
		// Watching show with 10 episodes: 10 x 0.75 x 0.55
		{ExternalID: 11, MediaType: models.MediaTypeTV, DateAdded: added, Status: models.StatusWatching},
		// Games by status
		{ExternalID: 20, MediaType: models.MediaTypeGame, DateAdded: added, Status: models.StatusCompleted},
		{ExternalID: 21, MediaType: models.MediaTypeGame, DateAdded: added, Status: models.StatusPlaying},
		{ExternalID: 22, MediaType: models.MediaTypeGame, DateAdded: added, Status: models.StatusPlanned},
	}

	movieRuntimes := map[int64]int{2: 120}
	tvEpisodes := map[int64]int{11: 10}

	breakdown := EstimatedHours(items, movieRuntimes, tvEpisodes)

	wantMovie := 2.5 + 2.0 + 110.0/60.0
	if math.Abs(breakdown.MovieHours-wantMovie) > 1e-9 {
		t.Errorf("Expected movie hours %f, got %f", wantMovie, breakdown.MovieHours)
	}

	wantTV := 8*0.75*1.0 + 10*0.75*0.55
	if math.Abs(breakdown.TVHours-wantTV) > 1e-9 {
		t.Errorf("Expected TV hours %f, got %f", wantTV, breakdown.TVHours)
	}

	wantGame := 35.0 + 18.0 + 7.0
	if math.Abs(breakdown.GameHours-wantGame) > 1e-9 {
		t.Errorf("Expected game hours %f, got %f", wantGame, breakdown.GameHours)
	}

	wantTotal := wantMovie + wantTV + wantGame
	if math.Abs(breakdown.TotalHours-wantTotal) > 1e-9 {
		t.Errorf("Expected total hours %f, got %f", wantTotal, breakdown.TotalHours)
	}
}

func TestMonthlyGoalProgressMovies(t *testing.T) {
	items := []*models.TrackedItem{
		// Watched this month
		movieItem(1, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), datePtr(2024, time.March, 2), nil),
		// No watch date, added this month: DateAdded fallback counts
		movieItem(2, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), nil, nil),
		// Watched in February: out
		movieItem(3, time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), datePtr(2024, time.February, 20), nil),
		// Watched last year in March: out
		movieItem(4, time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC), datePtr(2023, time.March, 2), nil),
	}

	if got := MonthlyGoalProgress(items, models.MediaTypeMovie, testNow); got != 2 {
		t.Errorf("Expected progress 2, got %d", got)
	}
}

func TestMonthlyGoalProgressGamesRequireCompletion(t *testing.T) {
	added := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		// Completed this month
		{ExternalID: 1, MediaType: models.MediaTypeGame, DateAdded: added, Status: models.StatusCompleted, FinishedAt: datePtr(2024, time.March, 8)},
		// Finished date this month but not completed: out
		{ExternalID: 2, MediaType: models.MediaTypeGame, DateAdded: added, Status: models.StatusPlaying, FinishedAt: datePtr(2024, time.March, 9)},
		// Completed, no finish date, added this month: DateAdded fallback
		{ExternalID: 3, MediaType: models.MediaTypeGame, DateAdded: time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC), Status: models.StatusCompleted},
	}

	if got := MonthlyGoalProgress(items, models.MediaTypeGame, testNow); got != 2 {
		t.Errorf("Expected progress 2, got %d", got)
	}
}

func TestGoalReachedBoundary(t *testing.T) {
	for goal := 1; goal <= 5; goal++ {
		if GoalReached(goal-1, goal) {
			t.Errorf("Goal %d should not be reached at progress %d", goal, goal-1)
		}
		if !GoalReached(goal, goal) {
			t.Errorf("Goal %d should be reached at progress %d", goal, goal)
		}
	}
}

func TestGoalSuccessCount(t *testing.T) {
	jan := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		// January: 2 movies watched, meets movie goal of 2
		movieItem(1, jan, datePtr(2024, time.January, 10), nil),
		movieItem(2, jan, datePtr(2024, time.January, 20), nil),
		// February: 1 movie, misses movie goal; 1 completed game meets game goal of 1
		movieItem(3, jan, datePtr(2024, time.February, 5), nil),
		{ExternalID: 10, MediaType: models.MediaTypeGame, DateAdded: jan, Status: models.StatusCompleted, FinishedAt: datePtr(2024, time.February, 15)},
		// March: 2 movies watched, meets movie goal again
		movieItem(4, jan, datePtr(2024, time.March, 2), nil),
		movieItem(5, jan, datePtr(2024, time.March, 10), nil),
	}

	goals := GoalTargets{MovieGoal: 2, GameGoal: 1}
	if got := GoalSuccessCount(items, goals, testNow); got != 3 {
		t.Errorf("Expected 3 successful goal periods, got %d", got)
	}
}

func TestBuildSnapshotConsistency(t *testing.T) {
	added := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	items := []*models.TrackedItem{
		movieItem(1, added, datePtr(2024, time.March, 6), ratingPtr(7.5)),
		{ExternalID: 2, MediaType: models.MediaTypeTV, DateAdded: added, Status: models.StatusWatching, Genres: []string{"Drama"}},
		{ExternalID: 3, MediaType: models.MediaTypeGame, DateAdded: added, Status: models.StatusCompleted, FinishedAt: datePtr(2024, time.March, 7)},
	}
	goals := GoalTargets{MovieGoal: 1, GameGoal: 1}

	first := BuildSnapshot(items, nil, nil, nil, goals, testNow)
	second := BuildSnapshot(items, nil, nil, nil, goals, testNow)

	if first.LibraryCount != 3 || first.RatedCount != 1 || first.CompletedCount != 2 {
		t.Errorf("Unexpected counts: %+v", first)
	}
	if first.MediaTypeCount != 3 {
		t.Errorf("Expected 3 media types, got %d", first.MediaTypeCount)
	}
	if !first.MovieGoalReached || !first.GameGoalReached {
		t.Error("Both goals should be reached")
	}

	// Identical inputs and now must derive identical snapshots
	if first.LibraryCount != second.LibraryCount ||
		first.GoalSuccessCount != second.GoalSuccessCount ||
		first.WeeklyStreak != second.WeeklyStreak ||
		first.EstimatedHours != second.EstimatedHours {
		t.Error("Snapshots derived from identical inputs differ")
	}
}
