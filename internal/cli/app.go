// Package cli wires configuration, persistence and the engine for the tally
// command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/adapters/file"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/adapters/redis"
	"github.com/aretw0/tally/pkg/observability"
	"github.com/aretw0/tally/pkg/persistence/middleware"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Options are the global command line settings.
type Options struct {
	ConfigPath string
	Debug      bool
	// Interactive silences logging unless Debug is set, so log lines do not
	// interleave with the prompt.
	Interactive bool
}

// App holds the long lived dependencies of one command invocation.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    ports.StateStore
	Sessions *session.Manager
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closers []func() error
}

// NewApp loads the config file and builds the App from it.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.LogLevel, opts.Debug, opts.Interactive)
	if err != nil {
		return nil, err
	}
	return NewAppFromConfig(ctx, cfg, logger)
}

// NewAppFromConfig builds the App from an already loaded config.
func NewAppFromConfig(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = observability.NewMetrics(app.Registry)

	managerOpts := []session.Option{session.WithLogger(logger)}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		app.Store = memory.NewStore()
	case config.BackendFile:
		app.Store = file.New(cfg.Store.Path)
	case config.BackendRedis:
		store := redis.New(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB,
			redis.WithPrefix(cfg.Store.Redis.Prefix),
			redis.WithTTL(cfg.Store.Redis.TTL),
		)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Store.Redis.Addr, err)
		}
		app.Store = store
		app.closers = append(app.closers, store.Close)
		managerOpts = append(managerOpts, session.WithLocker(redis.NewLocker(store.Client(), store.Prefix())))
	}

	if cfg.Store.Encryption.Enabled() {
		encCfg, err := cfg.Store.Encryption.Config()
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(encCfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Store = middleware.Chain(app.Store, mw)
	}

	app.Sessions = session.NewManager(app.Store, managerOpts...)
	logger.Debug("App initialized", "backend", cfg.Store.Backend)
	return app, nil
}

// Engine builds a calculator engine that logs and records metrics.
func (a *App) Engine() *tally.Engine {
	return tally.New(
		tally.WithLogger(a.Logger),
		tally.WithLifecycleHooks(observability.Compose(
			observability.LoggingHooks(a.Logger),
			a.Metrics.Hooks(),
		)),
	)
}

// Close releases backend connections.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
