package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Server != Default().Server {
			t.Errorf("server = %q, want default %q", cfg.Server, Default().Server)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server: csrf.internal:5317\n"), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Server != "csrf.internal:5317" {
			t.Errorf("server = %q", cfg.Server)
		}
		if cfg.Output != "table" {
			t.Errorf("output = %q, want table default", cfg.Output)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("server: [unterminated"), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &CLIConfig{
		Server:     "https://csrf.example.com",
		Output:     "json",
		CookieFile: "/tmp/csrf-session",
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()

	Merge(cfg,
		map[string]string{"server": "env-server", "output": "yaml"},
		map[string]string{"server": "flag-server"})

	if cfg.Server != "flag-server" {
		t.Errorf("server = %q, flags should win over env", cfg.Server)
	}
	if cfg.Output != "yaml" {
		t.Errorf("output = %q, want yaml from env", cfg.Output)
	}
	if cfg.CookieFile == "" {
		t.Error("cookie file default lost in merge")
	}
}
