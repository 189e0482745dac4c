package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"saldo/internal/core"
	"saldo/internal/locale"
	"saldo/internal/log"
)

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l.WithComponent(log.ComponentSettings) }
}

// Service serves the current settings to readers and serialises updates.
// It implements the locale and preference providers the money engine and
// the validation rules consume.
type Service struct {
	mu       sync.RWMutex
	current  Settings
	repo     Repository
	notifier Notifier
	logger   *log.Logger
}

// NewService loads the saved settings, or starts from defaults when the
// repository is empty.
func NewService(ctx context.Context, repo Repository, defaults Settings, opts ...Option) (*Service, error) {
	s := &Service{
		repo:   repo,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	current, err := repo.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := defaults.Validate(); err != nil {
			return nil, fmt.Errorf("default settings: %w", err)
		}
		current = defaults
	case err != nil:
		return nil, fmt.Errorf("load settings: %w", err)
	}
	current.Locale = locale.Canonicalize(current.Locale)
	s.current = current

	s.logger.Info("Settings loaded",
		log.FieldLocale, current.Locale,
		log.FieldCurrency, current.Preferences.CurrencyCode,
		"version", current.Version)
	return s, nil
}

func (s *Service) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Locale
}

func (s *Service) Preferences() core.FormatPreference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferencesLocked()
}

func (s *Service) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.current
	c.Preferences = s.preferencesLocked()
	return c
}

// preferencesLocked copies the preference so callers cannot alias
// MinPrecision.
func (s *Service) preferencesLocked() core.FormatPreference {
	p := s.current.Preferences
	if p.MinPrecision != nil {
		v := *p.MinPrecision
		p.MinPrecision = &v
	}
	return p
}

// Update validates and stores next, ignoring its Version. A failing
// notifier is logged; the update still stands.
func (s *Service) Update(ctx context.Context, next Settings) (Settings, error) {
	next.Locale = locale.Canonicalize(next.Locale)
	next.Preferences.CurrencyCode = strings.ToUpper(strings.TrimSpace(next.Preferences.CurrencyCode))
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	next.Version = s.current.Version + 1
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.current = next
	saved := s.current
	saved.Preferences = s.preferencesLocked()
	s.mu.Unlock()

	s.logger.Info("Settings updated",
		log.FieldLocale, saved.Locale,
		log.FieldCurrency, saved.Preferences.CurrencyCode,
		"version", saved.Version)

	if s.notifier != nil {
		if err := s.notifier.SettingsChanged(ctx, saved); err != nil {
			s.logger.Warn("Settings change notification failed",
				log.FieldError, err.Error(),
				"version", saved.Version)
		}
	}
	return saved, nil
}

// Reload re-reads the repository and adopts its settings when they are
// newer than the ones held in memory. It reports whether anything changed.
// Use it when another process shares the repository.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	loaded, err := s.repo.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reload settings: %w", err)
	}
	loaded.Locale = locale.Canonicalize(loaded.Locale)

	s.mu.Lock()
	if loaded.Version <= s.current.Version {
		s.mu.Unlock()
		return false, nil
	}
	previous := s.current.Version
	s.current = loaded
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Settings reloaded",
		log.FieldLocale, loaded.Locale,
		log.FieldCurrency, loaded.Preferences.CurrencyCode,
		"version", loaded.Version,
		"previous_version", previous)
	return true, nil
}

func (s *Service) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Version
}
