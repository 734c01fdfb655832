// Package main provides the entry point for csrfd.
//
// csrfd is the CSRF token service: it keeps per-session anti-forgery
// tokens with two-slot rotation and serves the issue/validate/delete
// API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lingtalfi/CSRFTools/internal/infra/buildinfo"
	"github.com/lingtalfi/CSRFTools/internal/infra/confloader"
	"github.com/lingtalfi/CSRFTools/internal/infra/shutdown"
	"github.com/lingtalfi/CSRFTools/internal/server/config"
	"github.com/lingtalfi/CSRFTools/internal/server/httpserver"
	"github.com/lingtalfi/CSRFTools/internal/session"
	"github.com/lingtalfi/CSRFTools/internal/storage"
	"github.com/lingtalfi/CSRFTools/internal/telemetry/logger"
	"github.com/lingtalfi/CSRFTools/internal/telemetry/metric"
	"github.com/lingtalfi/CSRFTools/pkg/csrf"
)

func main() {
	app := &cli.App{
		Name:    "csrfd",
		Usage:   "session-bound CSRF token service",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CSRFTOOLS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address, overrides the configured server.addr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr := c.String("listen"); addr != "" {
		cfg.Server.Addr = addr
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	slog.SetDefault(log)

	log.Info("starting csrfd",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"backend", cfg.Storage.Backend,
		"addr", cfg.Server.Addr)

	metrics := metric.NewRegistry(nil)

	backend, err := initBackend(cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("init storage backend: %w", err)
	}
	metrics.RegisterSessionsGauge(func() float64 {
		n, err := backend.Sessions(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	})

	sessions := session.NewManager(backend, session.Config{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}, log)

	tokens := csrf.New(sessions,
		csrf.WithNamespace(cfg.CSRF.Namespace),
		csrf.WithTokenLength(cfg.CSRF.TokenLength),
	)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Tokens:    tokens,
		Sessions:  sessions,
		Metrics:   metrics,
		Logger:    log,
		RateLimit: cfg.Server.RateLimit,
	})
	httpServer := httpserver.New(cfg.Server.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("closing storage backend")
		return backend.Close()
	})

	watcher, err := startConfigWatcher(c.String("config"), log)
	if err != nil {
		log.Warn("config watcher disabled", "error", err)
	} else if watcher != nil {
		shutdownHandler.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.Addr)

		var err error
		if cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig merges defaults, the optional YAML file, and environment
// variables, then validates the result.
func loadConfig(configFile string) (*config.Config, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.New(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initBackend builds the configured session storage backend.
func initBackend(cfg *config.Config, log *slog.Logger, metrics *metric.Registry) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		return storage.NewBadger(storage.BadgerConfig{
			Dir:           cfg.Storage.DataDir,
			SessionTTL:    cfg.Session.TTL,
			EncryptionKey: []byte(cfg.Storage.EncryptionKey),
			GCInterval:    cfg.Storage.GCInterval,
			SyncWrites:    cfg.Storage.SyncWrites,
		}, log, storage.WithBadgerMetrics(metrics.Registerer()))
	case config.BackendMemory:
		return storage.NewMemory(
			storage.WithSessionTTL(cfg.Session.TTL),
			storage.WithMemoryLogger(log),
		), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// startConfigWatcher reloads the log level when the config file changes.
// Other settings require a restart.
func startConfigWatcher(configFile string, log *slog.Logger) (*confloader.Watcher, error) {
	if configFile == "" {
		return nil, nil
	}

	watcher, err := confloader.NewWatcher(configFile, log)
	if err != nil {
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg := config.Default()
		if err := confloader.New(confloader.WithConfigFile(path)).Load(cfg); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.Level() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.Start()
	return watcher, nil
}
