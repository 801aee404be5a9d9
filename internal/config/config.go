// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the server needs to start. Values come from
// environment variables; a .env file is loaded first for local development.
type Config struct {
	Port string

	// UseMemoryStore switches on the in-memory store and mock auth for
	// local development.
	UseMemoryStore bool
	// SkipAuth keeps Firestore but bypasses token verification, for
	// seeding and integration testing only.
	SkipAuth bool

	GoogleCloudProject  string
	GeminiAPIKey        string
	StripeWebhookSecret string

	// Timezone is the operating timezone for month boundaries and daily
	// quota resets.
	Timezone *time.Location
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                os.Getenv("PORT"),
		UseMemoryStore:      os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local",
		SkipAuth:            os.Getenv("SKIP_AUTH") == "true",
		GoogleCloudProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
	if cfg.Port == "" {
		cfg.Port = "8111"
	}

	tzName := os.Getenv("SERVICE_TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Tokyo"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("config: invalid SERVICE_TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the combination of settings can actually run.
func (c *Config) Validate() error {
	if !c.UseMemoryStore && c.GoogleCloudProject == "" {
		return fmt.Errorf("config: GOOGLE_CLOUD_PROJECT is required unless USE_MEMORY_STORE=true")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config: GEMINI_API_KEY is required")
	}
	return nil
}
