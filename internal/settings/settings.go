// Package settings owns the user's locale and format preference for the
// lifetime of the process.
package settings

import (
	"context"
	"errors"
	"fmt"

	"saldo/internal/core"
	"saldo/internal/locale"
)

var (
	ErrNotFound      = errors.New("settings not found")
	ErrInvalidLocale = errors.New("invalid locale")
)

// Settings is the persisted snapshot. Version grows by one on every
// accepted update.
type Settings struct {
	Locale      string                `json:"locale"`
	Preferences core.FormatPreference `json:"preferences"`
	Version     int64                 `json:"version"`
}

func (s Settings) Validate() error {
	if !locale.Valid(s.Locale) {
		return fmt.Errorf("%w: %q", ErrInvalidLocale, s.Locale)
	}
	if err := s.Preferences.Validate(); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	return nil
}

// Defaults returns version-zero settings for loc with the default
// preference of currencyCode.
func Defaults(loc, currencyCode string) Settings {
	return Settings{
		Locale:      locale.Canonicalize(loc),
		Preferences: core.DefaultFormatPreference(currencyCode),
	}
}

// Repository stores the single settings row. Load returns ErrNotFound
// when nothing was saved yet.
type Repository interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Notifier is told about every accepted update, after it was saved.
type Notifier interface {
	SettingsChanged(ctx context.Context, s Settings) error
}
