package models

import "time"

// TrackedItem represents one user's record of engaging with one piece of content
type TrackedItem struct {
	ID         uint64 `boltholdKey:"ID"`
	ExternalID int64  `boltholdIndex:"ExternalID"` // TMDB or IGDB content ID

	MediaType  MediaType `boltholdIndex:"MediaType"` // "movie", "tv" or "game"
	Title      string
	PosterPath string

	Status Status
	Rating *float64 // nil if unrated, [0,10] in 0.5 steps

	// Activity dates
	DateAdded  time.Time  // immutable after creation
	WatchedAt  *time.Time // movies
	StartedAt  *time.Time // TV and games
	FinishedAt *time.Time // TV and games

	// Denormalized detail, captured at add/update time
	Genres         []string
	EstimatedHours *float64
	RuntimeMinutes *int
	SeasonsAtAdd   *int

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityDates returns every date field carrying activity for streak bucketing
func (i *TrackedItem) ActivityDates() []time.Time {
	dates := []time.Time{i.DateAdded}
	for _, d := range []*time.Time{i.WatchedAt, i.StartedAt, i.FinishedAt} {
		if d != nil {
			dates = append(dates, *d)
		}
	}
	return dates
}

// EventDates returns the consumption-event dates (excluding DateAdded),
// used for the weekly activity histogram
func (i *TrackedItem) EventDates() []time.Time {
	var dates []time.Time
	for _, d := range []*time.Time{i.WatchedAt, i.StartedAt, i.FinishedAt} {
		if d != nil {
			dates = append(dates, *d)
		}
	}
	return dates
}
