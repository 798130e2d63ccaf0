package main

import (
	"fmt"
	"time"

	"github.com/evelyn-website/family-photo-sub000/internal/infra/source"
	"github.com/evelyn-website/family-photo-sub000/pkg/config"
)

// GatewayConfig holds the gateway process configuration. Values come from an
// optional YAML file (GATEWAY_CONFIG_FILE) with environment variables taking
// precedence, so container deployments can override single knobs without
// shipping a file.
type GatewayConfig struct {
	// Addr is the main listen address.
	Addr string `yaml:"addr"`

	// MetricsPort is the port for the Prometheus metrics server.
	MetricsPort int `yaml:"metrics_port"`

	// RequestTimeout bounds one gateway request end to end.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// SweepInterval is how often the freshness sweep invalidates the cache.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Version is reported by the health endpoint.
	Version string `yaml:"version"`
}

// DefaultGatewayConfig returns the gateway defaults.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Addr:            ":8080",
		MetricsPort:     9090,
		RequestTimeout:  15 * time.Second,
		SweepInterval:   30 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		Version:         "dev",
	}
}

// LoadGatewayConfig builds the gateway configuration: defaults, then the
// optional YAML file, then environment overrides.
func LoadGatewayConfig() (GatewayConfig, error) {
	cfg := DefaultGatewayConfig()

	if path := config.GetEnvString("GATEWAY_CONFIG_FILE", ""); path != "" {
		if err := config.LoadYAMLFile(path, &cfg); err != nil {
			return GatewayConfig{}, err
		}
	}

	cfg.Addr = config.GetEnvString("GATEWAY_ADDR", cfg.Addr)
	cfg.MetricsPort = config.GetEnvInt("METRICS_PORT", cfg.MetricsPort)
	cfg.RequestTimeout = config.GetEnvDuration("GATEWAY_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.SweepInterval = config.GetEnvDuration("CACHE_SWEEP_INTERVAL", cfg.SweepInterval)
	cfg.ShutdownTimeout = config.GetEnvDuration("GATEWAY_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.Version = config.GetEnvString("VERSION", cfg.Version)

	if err := config.ValidatePositiveDuration(cfg.RequestTimeout); err != nil {
		return GatewayConfig{}, fmt.Errorf("invalid request timeout: %w", err)
	}
	if err := config.ValidateDurationRange(cfg.SweepInterval, time.Minute, 24*time.Hour); err != nil {
		return GatewayConfig{}, fmt.Errorf("invalid sweep interval: %w", err)
	}
	if cfg.MetricsPort <= 0 || cfg.MetricsPort > 65535 {
		return GatewayConfig{}, fmt.Errorf("METRICS_PORT must be a valid port, got %d", cfg.MetricsPort)
	}

	return cfg, nil
}

// loadSourceConfig is a seam for tests; the production path reads the
// environment.
func loadSourceConfig() source.Config {
	return source.LoadFromEnv()
}
