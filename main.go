package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedsearch/config"
	"feedsearch/di"
	"feedsearch/driver/kvstore"
	"feedsearch/logger"
	"feedsearch/rest"
	"feedsearch/utils/otel"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelCfg := otel.ConfigFromEnv()
	shutdownOTel, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		logger.Init()
		logger.Logger.Error("Failed to initialize telemetry, continuing without it", "err", err)
		shutdownOTel = func(context.Context) error { return nil }
		otelCfg.Enabled = false
	}
	logger.InitWithOTel(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	if cfg.Telemetry.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Telemetry.SentryDSN}); err != nil {
			logger.Logger.Warn("Sentry init failed", "err", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	pool, err := kvstore.NewPool(ctx, cfg.Database.ConnectionString())
	if err != nil {
		logger.Logger.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	container := di.NewApplicationComponents(pool, cfg, logger.Logger)

	schemaCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	if err := container.Store.EnsureSchema(schemaCtx); err != nil {
		cancel()
		logger.Logger.Error("Failed to ensure store schema", "err", err)
		os.Exit(1)
	}
	cancel()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadHeaderTimeout = cfg.HTTP.ReadHeaderTimeout
	rest.RegisterRoutes(e, container)

	go func() {
		logger.Logger.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := e.Start(cfg.HTTP.Addr); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http", "err", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown", "err", err)
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		logger.Logger.Error("telemetry shutdown", "err", err)
	}
}
