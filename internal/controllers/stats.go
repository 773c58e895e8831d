package controllers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/models"
	"github.com/amaumene/trackarr/internal/preferences"
	"github.com/amaumene/trackarr/internal/services/igdb"
	"github.com/amaumene/trackarr/internal/services/tmdb"
	"github.com/amaumene/trackarr/internal/stats"
)

// StatsController assembles stats snapshots from the tracked-item collection
// and the content-API detail clients
type StatsController struct {
	db         *models.Database
	tmdbClient *tmdb.Client
	igdbClient *igdb.Client
	prefStore  *preferences.Store
	logger     *logrus.Logger
}

// NewStatsController creates a new stats controller
func NewStatsController(db *models.Database, tmdbClient *tmdb.Client, igdbClient *igdb.Client, prefStore *preferences.Store, logger *logrus.Logger) *StatsController {
	return &StatsController{
		db:         db,
		tmdbClient: tmdbClient,
		igdbClient: igdbClient,
		prefStore:  prefStore,
		logger:     logger,
	}
}

// detailLookups holds the per-pass lookup maps fed into the deriver
type detailLookups struct {
	genres        [][]string
	movieRuntimes map[int64]int
	tvEpisodes    map[int64]int
	tvSeasons     map[int64]int
}

// buildLookups fetches detail records for every tracked item. Lookup failures
// degrade to the deriver's defaults rather than failing the pass.
func (c *StatsController) buildLookups(ctx context.Context, items []*models.TrackedItem) detailLookups {
	lookups := detailLookups{
		movieRuntimes: make(map[int64]int),
		tvEpisodes:    make(map[int64]int),
		tvSeasons:     make(map[int64]int),
	}

	for _, item := range items {
		// The denormalized runtime avoids a lookup when present
		if item.MediaType == models.MediaTypeMovie && item.RuntimeMinutes != nil {
			lookups.movieRuntimes[item.ExternalID] = *item.RuntimeMinutes
		}

		switch item.MediaType {
		case models.MediaTypeMovie:
			if _, ok := lookups.movieRuntimes[item.ExternalID]; ok {
				continue
			}
			detail, err := c.tmdbClient.GetMovieDetail(ctx, item.ExternalID)
			if err != nil {
				c.logger.WithError(err).WithField("external_id", item.ExternalID).Warn("Movie detail lookup failed, using defaults")
				continue
			}
			if detail.RuntimeMinutes > 0 {
				lookups.movieRuntimes[item.ExternalID] = detail.RuntimeMinutes
			}
			lookups.genres = append(lookups.genres, detail.Genres)

		case models.MediaTypeTV:
			detail, err := c.tmdbClient.GetShowDetail(ctx, item.ExternalID)
			if err != nil {
				c.logger.WithError(err).WithField("external_id", item.ExternalID).Warn("Show detail lookup failed, using defaults")
				continue
			}
			if detail.EpisodeCount > 0 {
				lookups.tvEpisodes[item.ExternalID] = detail.EpisodeCount
			}
			if detail.SeasonCount > 0 {
				lookups.tvSeasons[item.ExternalID] = detail.SeasonCount
			}
			lookups.genres = append(lookups.genres, detail.Genres)

		case models.MediaTypeGame:
			detail, err := c.igdbClient.GetGameDetail(ctx, item.ExternalID)
			if err != nil {
				c.logger.WithError(err).WithField("external_id", item.ExternalID).Warn("Game detail lookup failed, using defaults")
				continue
			}
			lookups.genres = append(lookups.genres, detail.Genres)
		}
	}

	return lookups
}

// BuildSnapshot derives the stats snapshot for the current collection. The
// now value threads through every calendar-sensitive computation in the pass.
func (c *StatsController) BuildSnapshot(ctx context.Context, now time.Time) (stats.Snapshot, error) {
	items, err := c.db.GetAllItems()
	if err != nil {
		return stats.Snapshot{}, err
	}

	lookups := c.buildLookups(ctx, items)
	goals := c.prefStore.Goals()

	return stats.BuildSnapshot(items, lookups.genres, lookups.movieRuntimes, lookups.tvEpisodes, goals, now), nil
}

// SeasonChange flags a tracked show that has grown seasons since it was added
type SeasonChange struct {
	ItemID       uint64 `json:"item_id"`
	Title        string `json:"title"`
	SeasonsAtAdd int    `json:"seasons_at_add"`
	SeasonsNow   int    `json:"seasons_now"`
}

// DetectSeasonChanges compares each show's current season count against the
// count captured when it was added
func (c *StatsController) DetectSeasonChanges(ctx context.Context) ([]SeasonChange, error) {
	items, err := c.db.GetItemsByMediaType(models.MediaTypeTV)
	if err != nil {
		return nil, err
	}

	var changes []SeasonChange
	for _, item := range items {
		if item.SeasonsAtAdd == nil {
			continue
		}
		detail, err := c.tmdbClient.GetShowDetail(ctx, item.ExternalID)
		if err != nil {
			c.logger.WithError(err).WithField("external_id", item.ExternalID).Warn("Show detail lookup failed, skipping season check")
			continue
		}
		if detail.SeasonCount > *item.SeasonsAtAdd {
			changes = append(changes, SeasonChange{
				ItemID:       item.ID,
				Title:        item.Title,
				SeasonsAtAdd: *item.SeasonsAtAdd,
				SeasonsNow:   detail.SeasonCount,
			})
		}
	}
	return changes, nil
}
