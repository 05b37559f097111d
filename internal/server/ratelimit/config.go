package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for one endpoint.
// Paths ending in "/" are prefix matches.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // maximum requests per window; <= 0 means unlimited
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads configuration from environment variables
// (RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW).
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Every oracle-backed
// route burns LLM quota and is tiered accordingly; analytics writes are cheap.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/next-question", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/reveal", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/refine-question", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/refine-reveal", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		{Path: "/api/track-click", Method: "POST", Limit: 300, Window: time.Minute},
		{Path: "/api/submit-feedback", Method: "POST", Limit: 300, Window: time.Minute},

		{Path: "/api/admin/", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
	}
}

// MatchEndpoint matches a request path and method to an endpoint
// configuration, or nil when no configuration applies. Health checks are
// always unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		if configs[i].Method == method && strings.HasSuffix(configs[i].Path, "/") &&
			strings.HasPrefix(path, configs[i].Path) {
			return &configs[i]
		}
	}

	return nil
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
