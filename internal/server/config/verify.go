package config

import (
	"errors"
	"fmt"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if err := verifyCSRF(&cfg.CSRF); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("server.tls_cert_file and server.tls_key_file must be set together")
	}
	if cfg.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendBadger:
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required for the badger backend")
		}
		if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
			return fmt.Errorf("cannot create data directory: %w", err)
		}
		if key := cfg.EncryptionKey; key != "" && len(key) < 16 {
			return errors.New("storage.encryption_key must be at least 16 bytes")
		}
		return nil
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendMemory, BackendBadger, cfg.Backend)
	}
}

func verifySession(cfg *SessionSection) error {
	if cfg.TTL < 0 {
		return errors.New("session.ttl must not be negative")
	}
	return nil
}

func verifyCSRF(cfg *CSRFSection) error {
	if cfg.Namespace == "" {
		return errors.New("csrf.namespace must not be empty")
	}
	if cfg.TokenLength < 16 {
		return errors.New("csrf.token_length must be at least 16 bytes")
	}
	return nil
}
