package config

import (
	"os"
	"path/filepath"
)

// CLIConfig is the configuration for csrfctl.
type CLIConfig struct {
	// Server is the csrfd address, with or without scheme.
	Server string `yaml:"server"`

	// Output is the default output format (table, json, yaml).
	Output string `yaml:"output"`

	// CookieFile stores the session cookie between invocations.
	// Empty disables persistence.
	CookieFile string `yaml:"cookie_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:     "http://localhost:5317",
		Output:     "table",
		CookieFile: filepath.Join(configDir(), "session"),
	}
}

// configDir returns the csrfctl settings directory.
func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".csrfctl"
	}
	return filepath.Join(homeDir, ".csrfctl")
}
