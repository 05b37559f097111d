// Package config provides configuration loading and validation for the
// server. Everything comes from environment variables; main loads a .env
// file first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultAffiliateTag is the referral tag used when none is configured.
const DefaultAffiliateTag = "giftinator-20"

// Config holds the server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// GeminiAPIKey authenticates oracle calls. Required.
	GeminiAPIKey string

	// GoogleAPIKey and GoogleCSEID authenticate product search. Both optional;
	// when either is absent, link resolution always falls back to constructed
	// search URLs.
	GoogleAPIKey string
	GoogleCSEID  string

	// AffiliateTag is appended to every outbound Amazon link.
	AffiliateTag string

	// DatabaseURL enables the Postgres analytics recorder. Optional.
	DatabaseURL string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         8080,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:  os.Getenv("GOOGLE_CSE_ID"),
		AffiliateTag: os.Getenv("AFFILIATE_TAG"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if cfg.AffiliateTag == "" {
		cfg.AffiliateTag = DefaultAffiliateTag
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// SearchConfigured reports whether product search credentials are present.
func (c *Config) SearchConfigured() bool {
	return c.GoogleAPIKey != "" && c.GoogleCSEID != ""
}
