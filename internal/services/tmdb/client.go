package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/config"
)

const (
	baseURL = "https://api.themoviedb.org/3"

	cacheTTL      = 6 * time.Hour
	cacheSweep    = 30 * time.Minute
	maxRetries    = 3
	retryInterval = 500 * time.Millisecond
)

// Client handles communication with the TMDB API
type Client struct {
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		apiKey:     cfg.TMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.New(cacheTTL, cacheSweep),
		logger:     logger,
	}
}

// doRequest performs a GET request against the TMDB API with bounded retry
// on transient failures
func (c *Client) doRequest(ctx context.Context, path string, result interface{}) error {
	fullURL := fmt.Sprintf("%s%s?api_key=%s", baseURL, path, c.apiKey)

	c.logger.WithField("path", path).Debug("Making TMDB API request")

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("TMDB server error: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("TMDB API error %d: %s", resp.StatusCode, string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInterval
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func genreNames(genres []genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// MovieDetail holds the movie fields used for statistics derivation
type MovieDetail struct {
	RuntimeMinutes int
	Genres         []string
}

type movieResponse struct {
	Runtime int     `json:"runtime"`
	Genres  []genre `json:"genres"`
}

// GetMovieDetail retrieves runtime and genres for a movie
func (c *Client) GetMovieDetail(ctx context.Context, movieID int64) (*MovieDetail, error) {
	cacheKey := fmt.Sprintf("movie:%d", movieID)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*MovieDetail), nil
	}

	var resp movieResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", movieID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get movie detail: %w", err)
	}

	detail := &MovieDetail{
		RuntimeMinutes: resp.Runtime,
		Genres:         genreNames(resp.Genres),
	}
	c.cache.Set(cacheKey, detail, cache.DefaultExpiration)
	return detail, nil
}

// ShowDetail holds the TV show fields used for statistics derivation
type ShowDetail struct {
	EpisodeCount int
	SeasonCount  int
	Genres       []string
}

type showResponse struct {
	NumberOfEpisodes int     `json:"number_of_episodes"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	Genres           []genre `json:"genres"`
}

// GetShowDetail retrieves episode count, season count and genres for a show
func (c *Client) GetShowDetail(ctx context.Context, showID int64) (*ShowDetail, error) {
	cacheKey := fmt.Sprintf("tv:%d", showID)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*ShowDetail), nil
	}

	var resp showResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", showID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get show detail: %w", err)
	}

	detail := &ShowDetail{
		EpisodeCount: resp.NumberOfEpisodes,
		SeasonCount:  resp.NumberOfSeasons,
		Genres:       genreNames(resp.Genres),
	}
	c.cache.Set(cacheKey, detail, cache.DefaultExpiration)
	return detail, nil
}
