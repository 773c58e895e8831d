package stats

import (
	"time"

	"github.com/amaumene/trackarr/internal/models"
)

// Fallback constants used when no detail lookup is available. Fixed policy,
// not configurable.
const (
	defaultMovieRuntimeMinutes = 110
	defaultEpisodeCount        = 8
	hoursPerEpisode            = 0.75

	tvCompletedMultiplier = 1.0
	tvWatchingMultiplier  = 0.55
	tvOtherMultiplier     = 0.25

	gameCompletedHours = 35.0
	gamePlayingHours   = 18.0
	gameOtherHours     = 7.0
)

// TopGenresLimit is the size of the top-genre set fed into the snapshot
const TopGenresLimit = 5

// DayActivity is one weekday bucket of the current-week activity histogram
type DayActivity struct {
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"` // count / max(1, busiest day count)
}

// HoursBreakdown holds estimated consumption hours per media type
type HoursBreakdown struct {
	MovieHours float64 `json:"movie_hours"`
	TVHours    float64 `json:"tv_hours"`
	GameHours  float64 `json:"game_hours"`
	TotalHours float64 `json:"total_hours"`
}

// GoalTargets holds the configured monthly goals. Targets are assumed >= 1;
// validation happens at the configuration boundary.
type GoalTargets struct {
	MovieGoal int `json:"movie_goal"`
	GameGoal  int `json:"game_goal"`
}

// Snapshot is the derived summary of a user's tracked items at a point in
// time, consumed by achievement predicates and the stats API.
type Snapshot struct {
	LibraryCount   int `json:"library_count"`
	RatedCount     int `json:"rated_count"`
	CompletedCount int `json:"completed_count"`
	MediaTypeCount int `json:"media_type_count"` // distinct media types present, 0-3

	TopGenres      []string `json:"top_genres"`
	TopGenresCount int      `json:"top_genres_count"`

	AverageRatings map[models.MediaType]float64 `json:"average_ratings"`

	WeeklyStreak   int            `json:"weekly_streak"`
	WeeklyActivity [7]DayActivity `json:"weekly_activity"` // Mon..Sun

	EstimatedHours HoursBreakdown `json:"estimated_hours"`

	MovieGoalProgress int  `json:"movie_goal_progress"`
	GameGoalProgress  int  `json:"game_goal_progress"`
	MovieGoalReached  bool `json:"movie_goal_reached"`
	GameGoalReached   bool `json:"game_goal_reached"`
	GoalSuccessCount  int  `json:"goal_success_count"`
}

// AverageRating computes the arithmetic mean of ratings over items of the
// given media type. Returns 0 when no matching item carries a rating; callers
// needing to distinguish "no data" from a literal zero should consult the
// rated count.
func AverageRating(items []*models.TrackedItem, mediaType models.MediaType) float64 {
	var sum float64
	var count int
	for _, item := range items {
		if item.MediaType != mediaType || item.Rating == nil {
			continue
		}
		sum += *item.Rating
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// TopGenres builds a genre frequency count by merging genre names on tracked
// items with genre names from external detail records, and returns at most
// limit names sorted by descending frequency. Ties keep first-encountered
// order, so the ranking is stable across calls.
func TopGenres(items []*models.TrackedItem, detailGenres [][]string, limit int) []string {
	counts := make(map[string]int)
	var order []string

	bump := func(name string) {
		if name == "" {
			return
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}

	for _, item := range items {
		for _, g := range item.Genres {
			bump(g)
		}
	}
	for _, genres := range detailGenres {
		for _, g := range genres {
			bump(g)
		}
	}

	// Insertion sort keeps the first-encountered order for equal counts.
	ranked := make([]string, 0, len(order))
	for _, name := range order {
		pos := len(ranked)
		for pos > 0 && counts[ranked[pos-1]] < counts[name] {
			pos--
		}
		ranked = append(ranked, "")
		copy(ranked[pos+1:], ranked[pos:])
		ranked[pos] = name
	}

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// startOfWeek returns midnight on the Monday of t's ISO week, in t's location
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the previous Monday
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// WeeklyStreak counts consecutive Monday-start weeks with any dated activity
// (DateAdded, WatchedAt, StartedAt or FinishedAt), walking backward from the
// week containing now and stopping at the first gap. Returns 0 when the
// current week has no activity.
func WeeklyStreak(items []*models.TrackedItem, now time.Time) int {
	weeks := make(map[time.Time]bool)
	for _, item := range items {
		for _, d := range item.ActivityDates() {
			weeks[startOfWeek(d.In(now.Location()))] = true
		}
	}

	streak := 0
	for week := startOfWeek(now); weeks[week]; week = week.AddDate(0, 0, -7) {
		streak++
	}
	return streak
}

// WeeklyActivity counts consumption events (WatchedAt, StartedAt, FinishedAt)
// falling on each weekday of the week containing now. Ratio normalizes each
// bucket against the busiest day, with max(1, busiest) guarding the empty week.
func WeeklyActivity(items []*models.TrackedItem, now time.Time) [7]DayActivity {
	weekStart := startOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var buckets [7]DayActivity
	for _, item := range items {
		for _, d := range item.EventDates() {
			d = d.In(now.Location())
			if d.Before(weekStart) || !d.Before(weekEnd) {
				continue
			}
			dayIndex := int(d.Weekday()+6) % 7 // Monday = 0
			buckets[dayIndex].Count++
		}
	}

	maxCount := 1
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for i := range buckets {
		buckets[i].Ratio = float64(buckets[i].Count) / float64(maxCount)
	}
	return buckets
}

// EstimatedHours estimates total consumption hours per media type. An item's
// explicit EstimatedHours always wins; otherwise movies fall back to the
// runtime lookup (or 110 minutes), TV to the episode lookup (or 8 episodes)
// scaled by a status multiplier, and games to flat per-status hours.
func EstimatedHours(items []*models.TrackedItem, movieRuntimes map[int64]int, tvEpisodes map[int64]int) HoursBreakdown {
	var breakdown HoursBreakdown

	for _, item := range items {
		switch item.MediaType {
		case models.MediaTypeMovie:
			if item.EstimatedHours != nil {
				breakdown.MovieHours += *item.EstimatedHours
				continue
			}
			minutes := defaultMovieRuntimeMinutes
			if m, ok := movieRuntimes[item.ExternalID]; ok {
				minutes = m
			}
			breakdown.MovieHours += float64(minutes) / 60.0

		case models.MediaTypeTV:
			if item.EstimatedHours != nil {
				breakdown.TVHours += *item.EstimatedHours
				continue
			}
			episodes := defaultEpisodeCount
			if e, ok := tvEpisodes[item.ExternalID]; ok {
				episodes = e
			}
			multiplier := tvOtherMultiplier
			switch item.Status {
			case models.StatusCompleted:
				multiplier = tvCompletedMultiplier
			case models.StatusWatching:
				multiplier = tvWatchingMultiplier
			}
			breakdown.TVHours += float64(episodes) * hoursPerEpisode * multiplier

		case models.MediaTypeGame:
			if item.EstimatedHours != nil {
				breakdown.GameHours += *item.EstimatedHours
				continue
			}
			switch item.Status {
			case models.StatusCompleted:
				breakdown.GameHours += gameCompletedHours
			case models.StatusPlaying:
				breakdown.GameHours += gamePlayingHours
			default:
				breakdown.GameHours += gameOtherHours
			}
		}
	}

	breakdown.TotalHours = breakdown.MovieHours + breakdown.TVHours + breakdown.GameHours
	return breakdown
}

// sameMonth reports whether t falls in the same calendar month and year as ref
func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// MonthlyGoalProgress counts items of the given media type whose completion
// date falls in the calendar month containing now. Movies count on
// WatchedAt (falling back to DateAdded); games count on FinishedAt (falling
// back to DateAdded) and must be completed.
func MonthlyGoalProgress(items []*models.TrackedItem, mediaType models.MediaType, now time.Time) int {
	count := 0
	for _, item := range items {
		if item.MediaType != mediaType {
			continue
		}

		var when time.Time
		switch mediaType {
		case models.MediaTypeMovie:
			when = item.DateAdded
			if item.WatchedAt != nil {
				when = *item.WatchedAt
			}
		case models.MediaTypeGame:
			if item.Status != models.StatusCompleted {
				continue
			}
			when = item.DateAdded
			if item.FinishedAt != nil {
				when = *item.FinishedAt
			}
		default:
			continue
		}

		if sameMonth(when.In(now.Location()), now) {
			count++
		}
	}
	return count
}

// GoalReached reports whether the monthly goal is met. Targets are assumed
// >= 1 (validated at the configuration boundary).
func GoalReached(progress, goal int) bool {
	return progress >= goal
}

// GoalSuccessCount counts the calendar months, from the earliest DateAdded
// through the month containing now, in which the movie goal or the game goal
// was met. A month meeting both goals counts twice, once per goal kind.
func GoalSuccessCount(items []*models.TrackedItem, goals GoalTargets, now time.Time) int {
	if len(items) == 0 {
		return 0
	}

	earliest := now
	for _, item := range items {
		if item.DateAdded.Before(earliest) {
			earliest = item.DateAdded
		}
	}
	earliest = earliest.In(now.Location())

	count := 0
	month := time.Date(earliest.Year(), earliest.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for !month.After(end) {
		if GoalReached(MonthlyGoalProgress(items, models.MediaTypeMovie, month), goals.MovieGoal) {
			count++
		}
		if GoalReached(MonthlyGoalProgress(items, models.MediaTypeGame, month), goals.GameGoal) {
			count++
		}
		month = month.AddDate(0, 1, 0)
	}
	return count
}

// BuildSnapshot derives the full stats snapshot from the tracked-item
// collection. The single now value threads through every calendar-sensitive
// computation, so repeated calls with identical inputs yield identical
// snapshots.
func BuildSnapshot(items []*models.TrackedItem, detailGenres [][]string, movieRuntimes map[int64]int, tvEpisodes map[int64]int, goals GoalTargets, now time.Time) Snapshot {
	snapshot := Snapshot{
		LibraryCount:   len(items),
		AverageRatings: make(map[models.MediaType]float64),
	}

	typesSeen := make(map[models.MediaType]bool)
	for _, item := range items {
		if item.Rating != nil {
			snapshot.RatedCount++
		}
		if item.Status == models.StatusCompleted {
			snapshot.CompletedCount++
		}
		typesSeen[item.MediaType] = true
	}
	snapshot.MediaTypeCount = len(typesSeen)

	for _, mediaType := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV, models.MediaTypeGame} {
		snapshot.AverageRatings[mediaType] = AverageRating(items, mediaType)
	}

	snapshot.TopGenres = TopGenres(items, detailGenres, TopGenresLimit)
	snapshot.TopGenresCount = len(snapshot.TopGenres)

	snapshot.WeeklyStreak = WeeklyStreak(items, now)
	snapshot.WeeklyActivity = WeeklyActivity(items, now)
	snapshot.EstimatedHours = EstimatedHours(items, movieRuntimes, tvEpisodes)

	snapshot.MovieGoalProgress = MonthlyGoalProgress(items, models.MediaTypeMovie, now)
	snapshot.GameGoalProgress = MonthlyGoalProgress(items, models.MediaTypeGame, now)
	snapshot.MovieGoalReached = GoalReached(snapshot.MovieGoalProgress, goals.MovieGoal)
	snapshot.GameGoalReached = GoalReached(snapshot.GameGoalProgress, goals.GameGoal)
	snapshot.GoalSuccessCount = GoalSuccessCount(items, goals, now)

	return snapshot
}
