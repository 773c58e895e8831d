package preferences

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/amaumene/trackarr/internal/stats"
)

// Preferences holds the user-configurable state persisted between runs
type Preferences struct {
	MovieGoal        int      `json:"movie_goal"`
	GameGoal         int      `json:"game_goal"`
	SeenAchievements []string `json:"seen_achievements"`
}

// Store persists preferences to a JSON file. Reads and writes are serialized
// so a mark-seen during an evaluation pass cannot race a goal update.
type Store struct {
	mu       sync.Mutex
	filepath string
	prefs    Preferences
}

// NewStore creates a file-backed preferences store. A missing file is not an
// error; the provided defaults apply until the first save.
func NewStore(filepath string, defaultMovieGoal, defaultGameGoal int) (*Store, error) {
	s := &Store{
		filepath: filepath,
		prefs: Preferences{
			MovieGoal: defaultMovieGoal,
			GameGoal:  defaultGameGoal,
		},
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := json.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	if s.prefs.MovieGoal < 1 {
		s.prefs.MovieGoal = defaultMovieGoal
	}
	if s.prefs.GameGoal < 1 {
		s.prefs.GameGoal = defaultGameGoal
	}

	return s, nil
}

// save writes the preferences file. Caller holds the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filepath, data, 0600)
}

// Goals returns the configured monthly goal targets
func (s *Store) Goals() stats.GoalTargets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.GoalTargets{
		MovieGoal: s.prefs.MovieGoal,
		GameGoal:  s.prefs.GameGoal,
	}
}

// SetGoals updates the monthly goal targets. Targets below 1 are rejected
// here so the core never sees a zero goal.
func (s *Store) SetGoals(movieGoal, gameGoal int) error {
	if movieGoal < 1 || gameGoal < 1 {
		return fmt.Errorf("goal targets must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.MovieGoal = movieGoal
	s.prefs.GameGoal = gameGoal
	return s.save()
}

// SeenSet returns the set of achievement ids already surfaced to the user
func (s *Store) SeenSet() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(s.prefs.SeenAchievements))
	for _, id := range s.prefs.SeenAchievements {
		seen[id] = true
	}
	return seen
}

// MarkSeen records an achievement id as surfaced. Idempotent: marking an id
// already present is a no-op and does not rewrite the file.
func (s *Store) MarkSeen(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.prefs.SeenAchievements {
		if existing == id {
			return nil
		}
	}

	s.prefs.SeenAchievements = append(s.prefs.SeenAchievements, id)
	return s.save()
}
