package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact patterns win over trailing-slash prefix patterns.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: health check endpoint is unlimited
	if path == "/health" && method == http.MethodGet {
		return &EndpointConfig{Pattern: "/health", Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && !strings.HasSuffix(config.Pattern, "/") && matchSegments(config.Pattern, path) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Pattern, "/") && matchPrefix(config.Pattern, path) {
			return config
		}
	}

	return nil
}

// matchSegments reports whether path has the same segments as pattern,
// treating "*" as a single-segment wildcard.
func matchSegments(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != "*" && want[i] != got[i] {
			return false
		}
	}
	return true
}

func matchPrefix(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(got) < len(want) {
		return false
	}
	return matchSegments(strings.Join(want, "/"), strings.Join(got[:len(want)], "/"))
}
