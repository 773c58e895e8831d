package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const tokenURL = "https://id.twitch.tv/oauth2/token"

// TokenStore defines the interface for storing and retrieving tokens
type TokenStore interface {
	GetToken() (*Token, error)
	SaveToken(token *Token) error
}

// Token represents a Twitch app access token for IGDB
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileTokenStore implements TokenStore using a JSON file
type FileTokenStore struct {
	filepath string
}

// NewFileTokenStore creates a new file-based token store
func NewFileTokenStore(filepath string) *FileTokenStore {
	return &FileTokenStore{filepath: filepath}
}

// GetToken retrieves the token from the file
func (s *FileTokenStore) GetToken() (*Token, error) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("token file not found")
		}
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}

	return &token, nil
}

// SaveToken saves the token to the file
func (s *FileTokenStore) SaveToken(token *Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filepath, data, 0600)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ensureValidToken returns a usable access token, requesting a fresh one via
// the Twitch client-credentials flow when the stored token is missing or
// about to expire
func (c *Client) ensureValidToken(ctx context.Context) (string, error) {
	token, err := c.tokenStore.GetToken()
	if err == nil && token != nil && time.Until(token.ExpiresAt) > 5*time.Minute {
		return token.AccessToken, nil
	}

	c.logger.Debug("Requesting new IGDB access token")

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	newToken := &Token{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}
	if err := c.tokenStore.SaveToken(newToken); err != nil {
		c.logger.WithError(err).Warn("Failed to persist IGDB token")
	}

	return newToken.AccessToken, nil
}
