// Package pagination provides the page arithmetic shared by every component
// that reasons about paginated photo feeds: offset calculation, total-page
// calculation, and requested-page clamping. The data source and the cache
// layer must agree bit-for-bit on these rules, since the cache reconciles
// its notion of "current page" against the page number the source returns.
package pagination

import (
	"os"
	"strconv"
)

// Config holds pagination configuration settings.
// These values can be loaded from environment variables or config files.
type Config struct {
	DefaultPage     int // Default page number (typically 1)
	DefaultPageSize int // Default items per page (typically 24)
	MaxPageSize     int // Maximum allowed items per page (typically 100)
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, page size=24, max=100. A 24-item page fills a
// 2/3/4-column photo grid evenly.
func DefaultConfig() Config {
	return Config{
		DefaultPage:     1,
		DefaultPageSize: 24,
		MaxPageSize:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE: Default page number
//   - PAGINATION_DEFAULT_PAGE_SIZE: Default items per page
//   - PAGINATION_MAX_PAGE_SIZE: Maximum items per page
//
// Falls back to DefaultConfig() if environment variables are not set.
func LoadFromEnv() Config {
	return Config{
		DefaultPage:     getEnvAsInt("PAGINATION_DEFAULT_PAGE", 1),
		DefaultPageSize: getEnvAsInt("PAGINATION_DEFAULT_PAGE_SIZE", 24),
		MaxPageSize:     getEnvAsInt("PAGINATION_MAX_PAGE_SIZE", 100),
	}
}

// getEnvAsInt retrieves an environment variable and parses it as an integer.
// Returns the default value if the variable is not set or cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
