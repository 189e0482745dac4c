// Package worker runs background consumers that keep a process in step
// with settings changed elsewhere.
package worker

import (
	"context"
	"errors"
	"fmt"

	"saldo/internal/amqp"
	"saldo/internal/log"
)

// Reloader re-reads shared settings. settings.Service implements it.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// VersionSource reports the version of the settings currently in use.
type VersionSource interface {
	Version() int64
}

// Consumer delivers settings change messages until ctx is done.
type Consumer interface {
	ConsumeSettingsChanged(ctx context.Context, handler func(context.Context, *amqp.SettingsChangedMessage) error) error
}

// SettingsListener reloads settings when another process announces a
// newer version.
type SettingsListener struct {
	consumer Consumer
	reloader Reloader
	versions VersionSource
	logger   *log.Logger
}

func NewSettingsListener(consumer Consumer, reloader Reloader, versions VersionSource, logger *log.Logger) *SettingsListener {
	if logger == nil {
		logger = log.Discard()
	}
	return &SettingsListener{
		consumer: consumer,
		reloader: reloader,
		versions: versions,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSettingsChanged processes one message. Versions that are not newer
// than the local one are acknowledged without reloading.
func (w *SettingsListener) HandleSettingsChanged(ctx context.Context, msg *amqp.SettingsChangedMessage) error {
	local := w.versions.Version()
	if msg.Version <= local {
		w.logger.Debug("Ignoring settings change",
			"version", msg.Version,
			"local_version", local)
		return nil
	}

	changed, err := w.reloader.Reload(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to reload settings",
			log.FieldError, err.Error(),
			"version", msg.Version)
		return fmt.Errorf("reload settings: %w", err)
	}

	w.logger.InfoContext(ctx, "Processed settings change",
		log.FieldLocale, msg.Locale,
		log.FieldCurrency, msg.CurrencyCode,
		"version", msg.Version,
		"reloaded", changed)
	return nil
}

// Run consumes until ctx is cancelled. Cancellation is not an error.
func (w *SettingsListener) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Settings listener started")
	err := w.consumer.ConsumeSettingsChanged(ctx, w.HandleSettingsChanged)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		w.logger.InfoContext(ctx, "Settings listener stopped")
		return nil
	}
	return err
}
