// Package core assembles the application: config, logging, storage,
// registry, weather cache, scheduler loop, dialogs and transport, all
// run under one supervisor.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"weatherbot/internal/config"
	"weatherbot/internal/dialog"
	"weatherbot/internal/logging"
	"weatherbot/internal/registry"
	"weatherbot/internal/runtime/supervisor"
	"weatherbot/internal/scheduler"
	"weatherbot/internal/storage"
	"weatherbot/internal/telegram"
	"weatherbot/internal/weather"
)

type App struct {
	log      zerolog.Logger
	closeLog func() error

	cfgMgr  *config.Manager
	hist    *storage.History
	bot     *telegram.Bot
	loop    *scheduler.Loop
	janitor *Janitor

	sup *supervisor.Supervisor
}

// NewApp loads the config at path and wires every component. Nothing
// starts running until Start.
func NewApp(path string) (*App, error) {
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfgMgr := config.NewManager(path, boot)
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLog := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logging.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	app, err := build(cfgMgr, cfg, log)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	app.closeLog = closeLog
	return app, nil
}

func build(cfgMgr *config.Manager, cfg *config.Config, log zerolog.Logger) (*App, error) {
	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	busyTimeout, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := config.ParseDurationOrDefault("weather.fetch_timeout", cfg.Weather.FetchTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := config.ParseDurationOrDefault("weather.cache_ttl", cfg.Weather.CacheTTL, weather.DefaultTTL)
	if err != nil {
		return nil, err
	}
	tick, err := config.ParseDurationOrDefault("scheduler.tick_interval", cfg.Scheduler.TickInterval, scheduler.DefaultTickInterval)
	if err != nil {
		return nil, err
	}
	sweepEvery, err := config.ParseDurationOrDefault("janitor.sweep_every", cfg.Janitor.SweepEvery, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	retention, err := config.ParseDurationOrDefault("janitor.history_retention", cfg.Janitor.HistoryRetention, 90*24*time.Hour)
	if err != nil {
		return nil, err
	}

	gw, err := storage.NewFileGateway(cfg.Storage.UsersPath, logging.Component(log, "storage"))
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	seed, err := gw.Load()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	reg := registry.New(gw, seed, logging.Component(log, "registry"))

	var hist *storage.History
	if cfg.Storage.HistoryPath != "" {
		hist, err = storage.OpenHistory(cfg.Storage.HistoryPath, busyTimeout)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	client := weather.NewClient(cfg.Weather.BaseURL, fetchTimeout, cfg.Weather.ForecastDays)
	cache := weather.NewCache(client, cacheTTL)

	dialogs := dialog.NewManager(reg, logging.Component(log, "dialog"))

	bot, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
		RatePerSec:  cfg.Telegram.RatePerSec,
	}, reg, dialogs, cache, hist, logging.Component(log, "telegram"))
	if err != nil {
		if hist != nil {
			_ = hist.Close()
		}
		return nil, fmt.Errorf("telegram: %w", err)
	}

	dedup := scheduler.NewDedup()
	loop := scheduler.NewLoop(reg, cache, bot, dedup, hist, tick, logging.Component(log, "scheduler"))

	janitor := NewJanitor(cache, hist, sweepEvery, retention, logging.Component(log, "janitor"))

	return &App{
		log:     log,
		cfgMgr:  cfgMgr,
		hist:    hist,
		bot:     bot,
		loop:    loop,
		janitor: janitor,
	}, nil
}

// Start brings everything up under a supervisor rooted at ctx.
func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, a.log)

	a.sup.Go("config-watch", a.cfgMgr.Watch)

	updates := a.cfgMgr.Subscribe(1)
	a.sup.Go("config-apply", func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case cfg := <-updates:
				a.applyReload(cfg)
			}
		}
	})

	a.sup.GoRestart("scheduler", a.loop.Run)

	if err := a.janitor.Start(); err != nil {
		return fmt.Errorf("janitor: %w", err)
	}
	a.bot.Start(a.sup.Context())

	a.log.Info().Msg("started")
	return nil
}

// applyReload applies the settings that are safe to change on a running
// process. Everything else (token, storage paths, tick interval) needs a
// restart; the committed config still reflects the new values.
func (a *App) applyReload(cfg *config.Config) {
	level := logging.SetLevel(cfg.Logging.Level)
	a.log.Info().Str("level", level.String()).Msg("config reload applied")
}

// Stop shuts down in reverse order, bounded by ctx.
func (a *App) Stop(ctx context.Context) error {
	a.janitor.Stop()

	var firstErr error
	if a.sup != nil {
		if err := a.sup.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := a.bot.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.hist != nil {
		if err := a.hist.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.log.Info().Msg("stopped")
	if a.closeLog != nil {
		_ = a.closeLog()
	}
	return firstErr
}
