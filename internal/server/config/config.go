// Package config defines the csrfd server configuration.
package config

import "time"

// Backend names accepted by storage.backend.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config is the root configuration for csrfd.
type Config struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Session SessionSection `koanf:"session"`
	CSRF    CSRFSection    `koanf:"csrf"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is the per-IP request budget in requests/second.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
}

// StorageSection configures the session backend.
type StorageSection struct {
	// Backend selects the session store: "memory" or "badger".
	Backend string `koanf:"backend"`

	// DataDir is the Badger data directory (badger backend only).
	DataDir string `koanf:"data_dir"`

	// EncryptionKey enables at-rest encryption of session data when
	// non-empty (badger backend only). Minimum 16 bytes.
	EncryptionKey string `koanf:"encryption_key"`

	// GCInterval is how often the Badger value-log GC runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// SyncWrites forces fsync on every Badger write.
	SyncWrites bool `koanf:"sync_writes"`
}

// SessionSection configures session lifecycle policy.
type SessionSection struct {
	CookieName string        `koanf:"cookie_name"`
	TTL        time.Duration `koanf:"ttl"`
	Secure     bool          `koanf:"secure"`
}

// CSRFSection configures the token manager.
type CSRFSection struct {
	// Namespace is the session key token entries live under.
	Namespace string `koanf:"namespace"`

	// TokenLength is the number of random bytes per token value.
	TokenLength int `koanf:"token_length"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
