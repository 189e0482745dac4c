// Package cli provides common initialization for the saldo binaries.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"saldo/internal/amqp"
	"saldo/internal/cache"
	"saldo/internal/config"
	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/settings"
	"saldo/internal/storage"
)

// SetupLogger initializes structured logging at the given level and
// installs it as the slog default.
func SetupLogger(level string) *log.Logger {
	lvl := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}),
	})
	slog.SetDefault(logger.Logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	sqliteRepo, err := storage.NewSQLiteRepository(dbPath, logger)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err.Error(), "path", dbPath)
		os.Exit(1)
	}
	return sqliteRepo
}

// SettingsRepository picks the repository named by cfg. The returned
// close function is never nil.
func SettingsRepository(logger *log.Logger, cfg *config.Config) (settings.Repository, func() error) {
	switch cfg.SettingsBackend {
	case "sqlite":
		repo := InitSQLite(logger, cfg.SQLiteDBPath)
		return repo, repo.Close
	default:
		return settings.NewMemoryRepository(), func() error { return nil }
	}
}

// InitNotifier connects to the broker when AMQP is configured. A broker
// that cannot be reached disables notifications instead of stopping the
// process.
func InitNotifier(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP not configured, settings notifications disabled")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Warn("AMQP unavailable, settings notifications disabled", log.FieldError, err.Error())
		return nil
	}
	return client
}

// InitSettings builds the settings service from configuration defaults.
func InitSettings(ctx context.Context, logger *log.Logger, cfg *config.Config, repo settings.Repository, notifier settings.Notifier) (*settings.Service, error) {
	defaults := settings.Settings{
		Locale:      cfg.DefaultLocale,
		Preferences: cfg.FormatPreference(),
	}
	opts := []settings.Option{settings.WithLogger(logger)}
	if notifier != nil {
		opts = append(opts, settings.WithNotifier(notifier))
	}
	svc, err := settings.NewService(ctx, repo, defaults, opts...)
	if err != nil {
		return nil, fmt.Errorf("init settings: %w", err)
	}
	return svc, nil
}

// SeparatorCache builds the engine's separator cache and a manager that
// evicts expired entries. Both are nil when the cache is disabled.
func SeparatorCache(logger *log.Logger, cfg *config.Config) (cache.Cache[core.SeparatorSet], *cache.Manager) {
	if cfg.SeparatorCacheSize <= 0 {
		logger.Info("Separator cache disabled")
		return nil, nil
	}
	lru := cache.NewLRUCache[core.SeparatorSet](cfg.SeparatorCacheSize, cfg.SeparatorCacheTTL)
	manager := cache.NewManager(logger)
	manager.Register(lru)
	manager.StartCleanup(cfg.SeparatorCacheTTL)
	logger.Info("Separator cache enabled",
		"size", cfg.SeparatorCacheSize,
		"ttl", cfg.SeparatorCacheTTL.String())
	return lru, manager
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
