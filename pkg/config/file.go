package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAMLFile reads a YAML configuration file and unmarshals it into out.
//
// The file is optional in most deployments (environment variables cover the
// common cases), so callers typically guard this with a path check:
//
//	if path := GetEnvString("GATEWAY_CONFIG_FILE", ""); path != "" {
//	    if err := config.LoadYAMLFile(path, &fileCfg); err != nil { ... }
//	}
func LoadYAMLFile(path string, out any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
