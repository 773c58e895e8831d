package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey string

	// IGDB (Twitch credentials)
	IGDBClientID     string
	IGDBClientSecret string

	// Goals (defaults; user overrides live in the preferences store)
	MovieGoal int // Completed movies per month (default: 4)
	GameGoal  int // Completed games per month (default: 2)

	// Evaluation
	EvalIntervalMinutes int // Minutes between achievement evaluation passes (default: 5)

	// Server
	ServerPort string

	// Paths
	PreferencesFile string // $CONFIG_DIR/preferences.json
	IGDBTokenFile   string // $CONFIG_DIR/igdb_token.json
	DatabaseFile    string // $CONFIG_DIR/trackarr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("MOVIE_GOAL", 4)
	viper.SetDefault("GAME_GOAL", 2)
	viper.SetDefault("EVAL_INTERVAL_MINUTES", 5)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "trackarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB
		TMDBAPIKey: viper.GetString("TMDB_API_KEY"),

		// IGDB
		IGDBClientID:     viper.GetString("IGDB_CLIENT_ID"),
		IGDBClientSecret: viper.GetString("IGDB_CLIENT_SECRET"),

		// Goals
		MovieGoal: viper.GetInt("MOVIE_GOAL"),
		GameGoal:  viper.GetInt("GAME_GOAL"),

		// Evaluation
		EvalIntervalMinutes: viper.GetInt("EVAL_INTERVAL_MINUTES"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		PreferencesFile: filepath.Join(configDir, "preferences.json"),
		IGDBTokenFile:   filepath.Join(configDir, "igdb_token.json"),
		DatabaseFile:    filepath.Join(configDir, "trackarr.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.IGDBClientID == "" {
		return nil, fmt.Errorf("IGDB_CLIENT_ID is required")
	}
	if config.IGDBClientSecret == "" {
		return nil, fmt.Errorf("IGDB_CLIENT_SECRET is required")
	}

	// A goal target of zero is undefined behavior for the evaluation core;
	// reject it at the boundary
	if config.MovieGoal < 1 {
		return nil, fmt.Errorf("MOVIE_GOAL must be at least 1")
	}
	if config.GameGoal < 1 {
		return nil, fmt.Errorf("GAME_GOAL must be at least 1")
	}
	if config.EvalIntervalMinutes < 1 {
		return nil, fmt.Errorf("EVAL_INTERVAL_MINUTES must be at least 1")
	}

	return config, nil
}
