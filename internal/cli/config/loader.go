package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load reads the CLI configuration from path, falling back to defaults
// when the file does not exist. Fields absent from the file keep their
// default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the CLI configuration to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Merge applies environment variables then flag values on top of cfg.
// Empty overrides are ignored.
func Merge(cfg *CLIConfig, env map[string]string, flags map[string]string) *CLIConfig {
	apply := func(values map[string]string) {
		if v := values["server"]; v != "" {
			cfg.Server = v
		}
		if v := values["output"]; v != "" {
			cfg.Output = v
		}
		if v := values["cookie_file"]; v != "" {
			cfg.CookieFile = v
		}
	}
	apply(env)
	apply(flags)
	return cfg
}
