package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"saldo/internal/cli"
	"saldo/internal/config"
	apphttp "saldo/internal/http"
	"saldo/internal/log"
	"saldo/internal/middleware/ratelimit"
	"saldo/internal/money"
	"saldo/internal/settings"
	"saldo/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	// LOG_LEVEL is read before validation so config errors use it too.
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting saldo",
		"port", cfg.Port,
		"settings_backend", cfg.SettingsBackend,
		log.FieldLocale, cfg.DefaultLocale)

	if err := run(logger, cfg); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(logger *log.Logger, cfg *config.Config) error {
	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	repo, closeRepo := cli.SettingsRepository(logger, cfg)
	defer closeRepo()

	var notifier settings.Notifier
	amqpClient := cli.InitNotifier(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
		notifier = amqpClient
	}

	svc, err := cli.InitSettings(ctx, logger, cfg, repo, notifier)
	if err != nil {
		return err
	}

	separators, cacheManager := cli.SeparatorCache(logger, cfg)
	if cacheManager != nil {
		defer cacheManager.Stop()
	}

	engine := money.NewEngine(money.Options{
		Logger:          logger,
		Preferences:     svc,
		DefaultCurrency: cfg.DefaultCurrency,
		SeparatorCache:  separators,
	})

	limits := ratelimit.DefaultConfig()
	limits.RequestsPerSecond = cfg.RateLimitRPS
	limits.Burst = cfg.RateLimitBurst

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Engine:         engine,
		Settings:       svc,
		Logger:         logger,
		RateLimit:      limits,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelShutdown()

		logger.Info("Shutting down HTTP server", "timeout", cfg.ShutdownTimeout.String())
		return srv.Shutdown(shutdownCtx)
	})

	// Other instances sharing the repository announce their updates on the
	// same exchange.
	if amqpClient != nil && cfg.SettingsBackend == "sqlite" {
		listener := worker.NewSettingsListener(amqpClient, svc, svc, logger)
		g.Go(func() error {
			if err := listener.Run(gctx); err != nil {
				logger.Warn("Settings listener stopped", log.FieldError, err.Error())
			}
			return nil
		})
	}

	return g.Wait()
}
