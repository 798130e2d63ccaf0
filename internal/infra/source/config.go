package source

import (
	"time"

	"github.com/evelyn-website/family-photo-sub000/pkg/config"
)

// Config holds the photo backend client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. "https://photos.internal:8443".
	BaseURL string

	// RequestTimeout bounds one HTTP request end to end.
	RequestTimeout time.Duration

	// MaxPayloadBytes caps the size of a single binary payload download.
	MaxPayloadBytes int64
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:9000",
		RequestTimeout:  10 * time.Second,
		MaxPayloadBytes: 32 << 20,
	}
}

// LoadFromEnv builds a Config from environment variables, falling back to
// defaults.
func LoadFromEnv() Config {
	def := DefaultConfig()
	return Config{
		BaseURL:         config.GetEnvString("PHOTO_SOURCE_URL", def.BaseURL),
		RequestTimeout:  config.GetEnvDuration("PHOTO_SOURCE_TIMEOUT", def.RequestTimeout),
		MaxPayloadBytes: int64(config.GetEnvInt("PHOTO_SOURCE_MAX_PAYLOAD_BYTES", int(def.MaxPayloadBytes))),
	}
}
