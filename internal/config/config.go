// Package config provides environment-driven configuration for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrMissingAPIKey is returned when the required model provider credential
// is absent. It is a pre-flight failure: no stage runs without it.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set; add it to .env or your environment")

// Config holds all environment-driven settings. Only the model provider
// credential is required; missing adapter credentials degrade the matching
// adapter to its error-marker output.
type Config struct {
	// Required credential for the agent executor's backing model provider.
	GeminiAPIKey string `validate:"required"`

	// Optional run ledger connection. Empty disables persistence with a
	// warning.
	DatabaseURL string

	// Artifact and output locations.
	StorageRoot string `validate:"required"`
	OutputRoot  string `validate:"required"`

	// Optional per-adapter credentials and parameters.
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	Subreddits         string
	ProductHuntAPIKey  string
	SocialQuery        string

	Verbose bool
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StorageRoot:        envOr("TRENDFORGE_STORAGE", "storage"),
		OutputRoot:         envOr("TRENDFORGE_OUTPUT", "output"),
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:    envOr("REDDIT_USER_AGENT", "trendforge/1.0"),
		Subreddits:         os.Getenv("TRENDFORGE_SUBREDDITS"),
		ProductHuntAPIKey:  os.Getenv("PRODUCTHUNT_API_KEY"),
		SocialQuery:        os.Getenv("TRENDFORGE_SOCIAL_QUERY"),
		Verbose:            os.Getenv("TRENDFORGE_VERBOSE") == "1",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, mapping the common failure to a
// friendly pre-flight error.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("config validation failed: %w", err)
		}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if fieldErr.Field() == "GeminiAPIKey" {
				return ErrMissingAPIKey
			}
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
