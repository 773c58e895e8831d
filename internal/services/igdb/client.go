package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/trackarr/internal/config"
)

const (
	baseURL = "https://api.igdb.com/v4"

	cacheTTL      = 6 * time.Hour
	cacheSweep    = 30 * time.Minute
	maxRetries    = 3
	retryInterval = 500 * time.Millisecond
)

// Client handles communication with the IGDB API
type Client struct {
	clientID     string
	clientSecret string
	tokenStore   TokenStore
	httpClient   *http.Client
	cache        *cache.Cache
	logger       *logrus.Logger
}

// NewClient creates a new IGDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		clientID:     cfg.IGDBClientID,
		clientSecret: cfg.IGDBClientSecret,
		tokenStore:   NewFileTokenStore(cfg.IGDBTokenFile),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		cache:        cache.New(cacheTTL, cacheSweep),
		logger:       logger,
	}
}

// doRequest performs an authenticated IGDB query (the IGDB API takes its
// query language in the POST body) with bounded retry on transient failures
func (c *Client) doRequest(ctx context.Context, endpoint, query string, result interface{}) error {
	accessToken, err := c.ensureValidToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure valid token: %w", err)
	}

	fullURL := baseURL + endpoint
	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"query":    query,
	}).Debug("Making IGDB API request")

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(query))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Client-ID", c.clientID)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("IGDB server error: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("IGDB API error %d: %s", resp.StatusCode, string(body)))
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

// GameDetail holds the game fields used for statistics derivation
type GameDetail struct {
	Name   string
	Genres []string
}

type gameResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// GetGameDetail retrieves name and genres for a game
func (c *Client) GetGameDetail(ctx context.Context, gameID int64) (*GameDetail, error) {
	cacheKey := fmt.Sprintf("game:%d", gameID)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*GameDetail), nil
	}

	query := fmt.Sprintf("fields name,genres.name; where id = %d;", gameID)

	var games []gameResponse
	if err := c.doRequest(ctx, "/games", query, &games); err != nil {
		return nil, fmt.Errorf("failed to get game detail: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("game %d not found", gameID)
	}

	detail := &GameDetail{Name: games[0].Name}
	for _, g := range games[0].Genres {
		detail.Genres = append(detail.Genres, g.Name)
	}
	c.cache.Set(cacheKey, detail, cache.DefaultExpiration)
	return detail, nil
}
