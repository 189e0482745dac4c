package http

import (
	"errors"
	"strings"

	"saldo/internal/core"
	"saldo/internal/settings"
)

// sanitizeInput drops control characters other than tab and newlines.
// Surrounding whitespace is kept; the engine decides what it means.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// isInvalidSettings reports whether err comes from settings validation
// rather than from storage.
func isInvalidSettings(err error) bool {
	for _, target := range []error{
		settings.ErrInvalidLocale,
		core.ErrInvalidCurrency,
		core.ErrInvalidDisplayMode,
		core.ErrInvalidSignStyle,
		core.ErrInvalidPrecision,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
