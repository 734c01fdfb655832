package config

import (
	"time"

	"github.com/lingtalfi/CSRFTools/internal/session"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
	"github.com/lingtalfi/CSRFTools/pkg/token"
)

// Default configuration values.
const (
	DefaultAddr       = "127.0.0.1:5317"
	DefaultBackend    = BackendMemory
	DefaultDataDir    = "/var/lib/csrfd/data"
	DefaultGCInterval = 10 * time.Minute
	DefaultSessionTTL = 24 * time.Hour
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
)

// Default returns the default server configuration.
func Default() *Config {
	return &Config{
		Server: ServerSection{
			Addr: DefaultAddr,
		},
		Storage: StorageSection{
			Backend:    DefaultBackend,
			DataDir:    DefaultDataDir,
			GCInterval: DefaultGCInterval,
		},
		Session: SessionSection{
			CookieName: session.DefaultCookieName,
			TTL:        DefaultSessionTTL,
		},
		CSRF: CSRFSection{
			Namespace:   csrf.DefaultNamespace,
			TokenLength: token.DefaultLength,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
