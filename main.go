package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron"
	"golang.org/x/oauth2"

	"github.com/stian-overasen/connectlog/internal/cache"
	"github.com/stian-overasen/connectlog/internal/config"
	"github.com/stian-overasen/connectlog/internal/garmin"
	"github.com/stian-overasen/connectlog/internal/server"
	"github.com/stian-overasen/connectlog/internal/service"
	"github.com/stian-overasen/connectlog/internal/zones"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var envFile string
	flag.StringVar(&envFile, "env", ".env", "path to env file")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := initLogger(cfg)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GarminToken})
	client := garmin.NewClient(tokenSource)
	if cfg.GarminName != "" {
		logger.Info("serving connect data", "user", cfg.GarminName)
	}

	resolver := zones.NewResolver(logger)
	resolver.LoadOverrides(cfg.OverridesPath)

	svc := service.New(client, store, resolver, logger)

	if cfg.RefreshCron != "" {
		c := cron.New()
		err := c.AddFunc(cfg.RefreshCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			if err := svc.Refresh(ctx, cfg.DefaultMonths); err != nil {
				logger.Error("scheduled refresh failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling refresh %q: %w", cfg.RefreshCron, err)
		}
		c.Start()
		defer c.Stop()
		logger.Info("scheduled cache refresh", "cron", cfg.RefreshCron)
	}

	srv := server.New(svc,
		server.Addr(cfg.Server.Host, cfg.Server.Port),
		server.Logger(logger),
		server.DefaultMonths(cfg.DefaultMonths),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error)
	go func() {
		defer close(errCh)
		errCh <- srv.Start()
	}()
	logger.Info("listening", "host", cfg.Server.Host, "port", cfg.Server.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	logger.Info("server shutdown")
	return nil
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.Env == config.Production {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}

func openStore(cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Cache.Dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating cache directory: %w", err)
		}
		store, err := cache.OpenSQLite(filepath.Join(cfg.Cache.Dir, "cache.db"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := cache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
