// Package app wires configuration into the runtime pieces shared by the storefront and
// admin commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecoRouteClient/internal/api"
	"ecoRouteClient/internal/config"
	"ecoRouteClient/internal/db"
	"ecoRouteClient/internal/logging"
	"ecoRouteClient/internal/telemetry"
	"ecoRouteClient/repository"
)

// Runtime holds the long-lived dependencies of one command invocation.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
	API    *api.Client

	closers []func(context.Context) error
}

// New builds the logger, the tracer provider and the backend client described by cfg.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	tp, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("set up tracing: %w", err)
	}
	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		API:    api.New(cfg.API.BaseURL, telemetry.NewHTTPClient(tp, cfg.API.Timeout), logger),
	}
	rt.closers = append(rt.closers, shutdown)
	logger.Debug("runtime ready", zap.Stringer("config", cfg))
	return rt, nil
}

// Close releases everything opened through the runtime, newest first.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	_ = r.Logger.Sync()
	return errors.Join(errs...)
}

// OpenSessionRepository opens the configured session store. It is closed by Close.
func (r *Runtime) OpenSessionRepository(ctx context.Context) (repository.SessionRepositoryI, error) {
	cfg := r.Config
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.Redis.DB != 0 {
			opts.DB = cfg.Redis.DB
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		r.closers = append(r.closers, func(context.Context) error { return client.Close() })
		r.Logger.Debug("session store: redis", zap.String("namespace", cfg.Redis.Namespace))
		return repository.NewRedisSessionRepository(client, cfg.Redis.Namespace, cfg.Session.TTL), nil
	default:
		d, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open session db: %w", err)
		}
		r.closers = append(r.closers, func(context.Context) error { return d.Close() })
		r.Logger.Debug("session store: sqlite", zap.String("path", cfg.Database.Path))
		return repository.NewSQLiteSessionRepository(d), nil
	}
}

// InitialBalance returns the configured balance shown before the first fetch, if any.
func (r *Runtime) InitialBalance() *decimal.Decimal {
	if r.Config.Wallet.InitialBalance == "" {
		return nil
	}
	v, err := decimal.NewFromString(r.Config.Wallet.InitialBalance)
	if err != nil {
		r.Logger.Warn("ignoring invalid initial balance", zap.String("value", r.Config.Wallet.InitialBalance))
		return nil
	}
	return &v
}
