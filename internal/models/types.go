package models

// MediaType represents the type of tracked content
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeGame  MediaType = "game"
)

// Valid reports whether the media type is one of the known types
func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeMovie, MediaTypeTV, MediaTypeGame:
		return true
	}
	return false
}

// Status represents the user's progress on a tracked item
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusWatching  Status = "watching" // movies and TV
	StatusPlaying   Status = "playing"  // games
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
)

// ValidFor reports whether the status is allowed for the given media type.
// Games use "playing" where movies and TV use "watching".
func (s Status) ValidFor(mediaType MediaType) bool {
	switch s {
	case StatusPlanned, StatusCompleted, StatusDropped:
		return true
	case StatusWatching:
		return mediaType == MediaTypeMovie || mediaType == MediaTypeTV
	case StatusPlaying:
		return mediaType == MediaTypeGame
	}
	return false
}

// Rarity represents the display rarity tier of an achievement
type Rarity string

const (
	RarityCommon    Rarity = "Común"
	RarityRare      Rarity = "Raro"
	RarityEpic      Rarity = "Épico"
	RarityLegendary Rarity = "Legendario"
)
