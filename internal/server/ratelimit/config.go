package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused for this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         getEnvDuration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigsFromEnv(),
	}
}

// DefaultEndpointConfigs returns the built-in endpoint limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Letter generation writes to every candidate in an electorate
		{Path: "/letters", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/letters/regenerate", Method: "POST", Limit: 120, Window: time.Hour, Burst: 20},

		{Path: "/submissions", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/analyze", Method: "POST", Limit: 120, Window: time.Minute, Burst: 30},
		{Path: "/admin/", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// endpointConfigsFromEnv applies RATE_LIMIT_LETTERS_PER_HOUR and
// RATE_LIMIT_SUBMISSIONS_PER_HOUR to the defaults.
func endpointConfigsFromEnv() []EndpointConfig {
	configs := DefaultEndpointConfigs()
	overrides := map[string]string{
		"/letters":     "RATE_LIMIT_LETTERS_PER_HOUR",
		"/submissions": "RATE_LIMIT_SUBMISSIONS_PER_HOUR",
	}
	for i := range configs {
		key, ok := overrides[configs[i].Path]
		if !ok {
			continue
		}
		if limit := getEnvInt(key, 0); limit > 0 {
			configs[i].Limit = limit
			configs[i].Burst = min(configs[i].Burst, limit)
		}
	}
	return configs
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
