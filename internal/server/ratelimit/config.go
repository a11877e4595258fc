package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one path and method. A Path ending
// in "/" matches as a prefix, so "/applications/" covers "/applications/{id}".
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // bucket capacity, defaults to Limit when 0
}

// LoadConfig builds the limiter configuration from RATE_LIMIT_* environment
// variables, falling back to permissive defaults.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Expensive operations
// (ingestion, exports, auth) get tight hourly budgets, writes get per-minute
// budgets, and reads fall through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/applications/ingest", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/export/", Method: "GET", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/auth/login", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		{Path: "/applications", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/applications/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/applications/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/applications/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/companies", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/companies/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/companies/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func envInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func envBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// parseIPList splits a comma separated address list into a lookup set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
