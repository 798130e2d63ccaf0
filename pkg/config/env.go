// Package config provides helpers for loading configuration values from
// environment variables and optional YAML files, with fallback-to-default
// behavior and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// GetEnvString returns the value of an environment variable or the default value if not set.
//
// This function does not perform validation and does not log warnings.
// It is suitable for simple string configuration values.
//
// Example:
//
//	backendURL := GetEnvString("PHOTO_BACKEND_URL", "http://localhost:8080")
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable as an integer.
//
// If the environment variable is not set, empty, or cannot be parsed as an
// integer, this function returns the default value and logs a warning.
//
// Example:
//
//	port := GetEnvInt("GATEWAY_PORT", 8080)
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		slog.Warn("invalid integer value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of an environment variable as a boolean.
//
// Accepted true values: "true", "1", "yes". Accepted false values:
// "false", "0", "no". Any other value returns the default and logs a warning.
//
// Example:
//
//	devMode := GetEnvBool("DEV_MODE", false)
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	switch strings.ToLower(valueStr) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}

	slog.Warn("invalid boolean value for environment variable, using default",
		slog.String("key", key),
		slog.String("value", valueStr),
		slog.Bool("default", defaultValue))
	return defaultValue
}

// GetEnvDuration returns the value of an environment variable as a time.Duration.
//
// The value must be parseable by time.ParseDuration (e.g. "30s", "5m", "1h30m").
// If the variable is not set or cannot be parsed, the default value is
// returned and a warning is logged.
//
// Example:
//
//	sweep := GetEnvDuration("CACHE_SWEEP_INTERVAL", 30*time.Minute)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", valueStr),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return value
}

// GetEnvStringList returns the value of an environment variable as a list of
// strings split on commas, with surrounding whitespace trimmed from each item.
// Empty items are dropped. Returns the default list if the variable is not set.
//
// Example:
//
//	feeds := GetEnvStringList("GATEWAY_FEEDS", []string{"main", "editorial"})
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
