package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saiMhatre/stock-api/internal/config"
	"github.com/saiMhatre/stock-api/internal/seed"
	"github.com/saiMhatre/stock-api/internal/stock"
	"github.com/saiMhatre/stock-api/internal/store"
)

type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Store   stock.Store
	Service stock.Service
	closers []func() error
}

// newApp opens the configured store, migrates and seeds it, and builds the
// service on top.
func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := store.ConnectPostgres(cfg.DB)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)
		if cfg.DB.Migrate {
			if err := store.Migrate(db, logger); err != nil {
				app.Close()
				return nil, err
			}
		}
		app.Store = store.NewPostgres(db)
	default:
		app.Store = store.NewMemory()
	}
	logger.WithField("driver", cfg.Store.Driver).Info("store ready")

	if cfg.Seed.Enabled {
		if _, err := seed.Run(ctx, app.Store, logger, time.Now); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app.Service = stock.NewService(app.Store, logger)
	return app, nil
}

func (a *App) pinger() stock.Pinger {
	if p, ok := a.Store.(stock.Pinger); ok {
		return p
	}
	return nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close:", err)
		}
	}
	a.closers = nil
}
