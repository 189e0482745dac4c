// Package commands implements saldoctl, a command line shell over the
// money engine and the saved settings.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"saldo/internal/buildinfo"
	"saldo/internal/cli"
	"saldo/internal/config"
	"saldo/internal/core"
	"saldo/internal/locale"
	"saldo/internal/log"
	"saldo/internal/money"
	"saldo/internal/settings"
)

// env is what every subcommand runs against. It is built once the flags
// are parsed.
type env struct {
	cfg      *config.Config
	logger   *log.Logger
	settings *settings.Service
	engine   *money.Engine
	locale   string
	currency string
	closers  []func() error
}

// Locale is the --locale flag, or the saved locale.
func (e *env) Locale() string {
	if e.locale != "" {
		return locale.Canonicalize(e.locale)
	}
	return e.settings.Locale()
}

// Preferences is the saved preference with --currency applied.
func (e *env) Preferences() core.FormatPreference {
	p := e.settings.Preferences()
	if e.currency != "" {
		p.CurrencyCode = e.currency
	}
	return p
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("Cleanup failed", log.FieldError, err.Error())
		}
	}
	e.closers = nil
}

// run wraps a RunE so the env is released however fn returns.
func (e *env) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer e.close()
		return fn(cmd, args)
	}
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	e := &env{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "saldoctl",
		Short:   "Parse, format and validate locale-formatted amounts",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd, logLevel)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&e.locale, "locale", "", "BCP-47 locale (default: saved locale)")
	flags.StringVar(&e.currency, "currency", "", "ISO-4217 currency code (default: saved or inferred)")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newParseCommand(e),
		newFormatCommand(e),
		newSeparatorsCommand(e),
		newCurrencyCommand(e),
		newValidateCommand(e),
		newSettingsCommand(e),
	)

	return rootCmd
}

func (e *env) open(cmd *cobra.Command, logLevel string) error {
	lvl := log.ParseLevel(logLevel)
	e.logger = log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentCLI,
		Handler:   slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}),
	})

	cli.LoadEnvFile()
	e.cfg = config.Load()
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if e.locale != "" && !locale.Valid(e.locale) {
		return fmt.Errorf("invalid locale %q", e.locale)
	}
	if e.currency != "" {
		code, err := currencyCode(e.currency)
		if err != nil {
			return err
		}
		e.currency = code
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, closeRepo := cli.SettingsRepository(e.logger, e.cfg)
	e.closers = append(e.closers, closeRepo)

	var notifier settings.Notifier
	if client := cli.InitNotifier(e.logger, e.cfg); client != nil {
		e.closers = append(e.closers, client.Close)
		notifier = client
	}

	svc, err := cli.InitSettings(ctx, e.logger, e.cfg, repo, notifier)
	if err != nil {
		e.close()
		return err
	}
	e.settings = svc
	e.engine = money.NewEngine(money.Options{
		Logger:          e.logger,
		Preferences:     e,
		DefaultCurrency: e.cfg.DefaultCurrency,
	})
	return nil
}
