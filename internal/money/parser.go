package money

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"saldo/internal/core"
	"saldo/internal/locale"
	"saldo/internal/log"
)

// Parse converts a locale-formatted amount such as "$1,234.56" (en-US) or
// "1 234,56 €" (fr-FR) into a canonical amount. ok is false for empty,
// malformed, zero or negative input.
//
// Markers of the effective currency are removed from either end, then the
// group separators; what remains must be digits, an optional leading minus
// and at most one decimal separator. Whitespace inside the number is only
// accepted when the locale groups digits with a space.
func (e *Engine) Parse(raw, loc string) (amount float64, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}

	tag := locale.Canonicalize(loc)
	code := e.currencyFor(tag)

	defer func() {
		if r := recover(); r != nil {
			e.logger.LogException(fmt.Errorf("parse amount: %v", r), log.Scope{
				Module: log.ComponentParser,
				Action: log.OpParse,
				Data:   log.NewFields().WithLocale(tag, code).WithInput(raw),
			})
			amount, ok = 0, false
		}
	}()

	seps := e.resolve(tag, code)

	// Markers go first: some contain the group mark ("kr." in da-DK).
	markers := append(e.resolver.Markers(tag, code), seps.CurrencySymbol)
	s := stripMarkers(strings.TrimSpace(raw), markers)

	if isSpaceGroup(seps.Group) {
		s = strings.Map(func(r rune) rune {
			if isSpaceGroup(string(r)) {
				return -1
			}
			return r
		}, s)
	} else if seps.Group != "" {
		s = strings.ReplaceAll(s, seps.Group, "")
	}

	return parseCanonical(s, seps.Decimal)
}

// ParseValue is Parse for untyped input such as decoded JSON. Anything but
// a string fails.
func (e *Engine) ParseValue(v any, loc string) (float64, bool) {
	s, isString := v.(string)
	if !isString {
		return 0, false
	}
	return e.Parse(s, loc)
}

// stripMarkers removes one currency marker from the start of s, after an
// optional minus sign, and one from the end, together with the spaces that
// separate them from the number. Markers are tried longest first and also
// with their inner spaces removed ("US dollars" vs "USdollars").
func stripMarkers(s string, markers []string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)
	}

	var variants []string
	for _, m := range markers {
		m = strings.TrimFunc(m, unicode.IsSpace)
		if m == "" {
			continue
		}
		variants = append(variants, m)
		if compact := strings.Join(strings.Fields(m), ""); compact != m {
			variants = append(variants, compact)
		}
	}

	for _, m := range variants {
		if rest, found := strings.CutPrefix(s, m); found {
			s = strings.TrimLeftFunc(rest, unicode.IsSpace)
			break
		}
	}
	if !neg && strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)
	}
	for _, m := range variants {
		if rest, found := strings.CutSuffix(s, m); found {
			s = strings.TrimRightFunc(rest, unicode.IsSpace)
			break
		}
	}

	if neg {
		return "-" + s
	}
	return s
}

// isSpaceGroup reports whether sep is one of the spaces locales group
// digits with: U+0020, U+00A0 or U+202F.
func isSpaceGroup(sep string) bool {
	switch sep {
	case " ", "\u00a0", "\u202f":
		return true
	}
	return false
}

// parseCanonical accepts digits, one leading '-' and at most one decimal
// separator, and requires a finite result above zero.
func parseCanonical(s, decimal string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if decimal == "" {
		decimal = "."
	}

	rest := strings.Replace(s, decimal, "", 1)
	for i, r := range rest {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '-' && i == 0 {
			continue
		}
		return 0, false
	}
	if strings.Count(s, decimal) > 1 {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.Replace(s, decimal, ".", 1), 64)
	if err != nil || !core.IsValidAmount(v) {
		return 0, false
	}
	return v, true
}
