package money

import (
	"fmt"

	"saldo/internal/core"
	"saldo/internal/locale"
	"saldo/internal/log"
)

// Format renders amount for loc according to prefs. When the facility
// cannot build a formatter (unknown currency, malformed tag) the result is
// "<CODE> <amount with MaxPrecision digits>" and the failure is logged
// once.
//
// prefs must satisfy core.FormatPreference.Validate; the engine does not
// check it.
func (e *Engine) Format(amount float64, loc string, prefs core.FormatPreference) (out string) {
	tag := locale.Canonicalize(loc)
	code := e.inferrer.Infer(tag, prefs.CurrencyCode)

	fallback := func(err error) string {
		e.logger.LogException(err, log.Scope{
			Module: log.ComponentFormatter,
			Action: log.OpFormat,
			Data:   log.NewFields().WithLocale(tag, code).WithAmount(amount),
		})
		return code + " " + core.FixedAmount(amount, prefs.MaxPrecision)
	}
	defer func() {
		if r := recover(); r != nil {
			out = fallback(fmt.Errorf("format amount: %v", r))
		}
	}()

	cf, err := e.facility.CurrencyFormatter(tag, code, e.currencyOptions(code, prefs))
	if err != nil {
		return fallback(fmt.Errorf("build currency formatter: %w", err))
	}
	return cf.Format(amount)
}

// FormatOptional renders "" for a nil amount, the engine's "no value".
func (e *Engine) FormatOptional(amount *float64, loc string, prefs core.FormatPreference) string {
	if amount == nil {
		return ""
	}
	return e.Format(*amount, loc, prefs)
}

// currencyOptions maps prefs to facility options. Without an explicit
// minimum the currency's standard digits are used, capped at MaxPrecision.
func (e *Engine) currencyOptions(code string, prefs core.FormatPreference) locale.CurrencyOptions {
	minDigits := 0
	if prefs.MinPrecision != nil {
		minDigits = *prefs.MinPrecision
	} else if digits, err := e.facility.CurrencyDigits(code); err == nil {
		minDigits = min(digits, prefs.MaxPrecision)
	}

	return locale.CurrencyOptions{
		NumberOptions: locale.NumberOptions{
			MinFractionDigits: minDigits,
			MaxFractionDigits: prefs.MaxPrecision,
			UseGrouping:       prefs.UseGrouping,
		},
		Display: prefs.DisplayMode,
		Sign:    prefs.SignStyle,
	}
}
