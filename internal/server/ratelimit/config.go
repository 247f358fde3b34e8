package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for one route.
type EndpointConfig struct {
	// Pattern is a path pattern where "*" matches exactly one segment and a
	// trailing "/" matches any suffix, e.g. "/jobs/*/shortlist" or "/jobs/".
	Pattern string
	Method  string        // HTTP method (GET, POST, etc.)
	Limit   int           // Maximum requests per window
	Window  time.Duration // Time window
	Burst   int           // Burst capacity (defaults to Limit if 0)
}

// Default limiter settings
const (
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
	DefaultIdleTimeout     = time.Hour
)

// DefaultConfig returns an enabled configuration allowing limitPerMinute
// requests per client on routes without a specific entry. A limit of zero
// or less disables rate limiting.
func DefaultConfig(limitPerMinute int) *Config {
	return &Config{
		Enabled:         limitPerMinute > 0,
		DefaultLimit:    limitPerMinute,
		DefaultWindow:   DefaultWindow,
		CleanupInterval: DefaultCleanupInterval,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits of the fit scoring API.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Shortlists score many candidates per request
		{Pattern: "/jobs/*/shortlist", Method: http.MethodGet, Limit: 30, Window: time.Minute, Burst: 5},

		// Single matches and indexing each cost embedding calls
		{Pattern: "/jobs/*/candidates/*/match", Method: http.MethodPost, Limit: 300, Window: time.Minute, Burst: 30},
		{Pattern: "/jobs/*/score", Method: http.MethodPost, Limit: 300, Window: time.Minute, Burst: 30},
		{Pattern: "/candidates/*/index", Method: http.MethodPost, Limit: 300, Window: time.Minute, Burst: 50},

		// Everything else uses the default limit; /health is unlimited
	}
}
