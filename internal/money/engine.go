// Package money converts between locale-formatted strings and canonical
// amounts.
//
// The Engine is stateless apart from its collaborators: every call derives
// separators, markers and the effective currency from its arguments, so
// callers re-run Parse or Format whenever the locale, the preferences or
// the amount change. Malformed input is reported through return values and
// never as an error or a panic.
package money

import (
	"strings"

	"saldo/internal/cache"
	"saldo/internal/core"
	"saldo/internal/locale"
	"saldo/internal/log"
)

// Logger receives reports from fallback paths. Implementations must not
// panic; the engine ignores anything they do.
type Logger interface {
	LogException(err error, scope log.Scope)
	LogWarning(msg string, scope log.Scope)
}

// PreferenceProvider exposes the current format preference. The engine
// only reads it.
type PreferenceProvider interface {
	Preferences() core.FormatPreference
}

// Options configures an Engine. Zero values select the x/text facility,
// a discarding logger and SystemDefaultCurrency. SeparatorCache is
// optional; without it every call resolves separators afresh.
type Options struct {
	Facility        locale.Facility
	Logger          Logger
	Preferences     PreferenceProvider
	DefaultCurrency string
	SeparatorCache  cache.Cache[core.SeparatorSet]
}

type Engine struct {
	facility    locale.Facility
	resolver    *locale.Resolver
	inferrer    locale.Inferrer
	logger      Logger
	preferences PreferenceProvider
	separators  cache.Cache[core.SeparatorSet]
}

func NewEngine(opts Options) *Engine {
	if opts.Facility == nil {
		opts.Facility = locale.XText()
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	inferrer := locale.NewInferrer(opts.DefaultCurrency)
	return &Engine{
		facility:    opts.Facility,
		resolver:    locale.NewResolver(opts.Facility, inferrer.DefaultCurrency),
		inferrer:    inferrer,
		logger:      opts.Logger,
		preferences: opts.Preferences,
		separators:  opts.SeparatorCache,
	}
}

// EffectiveCurrency returns the currency used for loc when configured is
// the user's currency setting.
func (e *Engine) EffectiveCurrency(loc, configured string) string {
	return e.inferrer.Infer(loc, configured)
}

// DefaultCurrency is the sentinel meaning "not chosen by the user".
func (e *Engine) DefaultCurrency() string {
	return e.inferrer.DefaultCurrency
}

// Separators resolves the separator set of loc for its effective currency.
func (e *Engine) Separators(loc string) core.SeparatorSet {
	tag := locale.Canonicalize(loc)
	return e.resolve(tag, e.currencyFor(tag))
}

// SeparatorsFor resolves the separator set of loc for an explicit
// currency code.
func (e *Engine) SeparatorsFor(loc, code string) core.SeparatorSet {
	return e.resolve(locale.Canonicalize(loc), strings.ToUpper(strings.TrimSpace(code)))
}

// resolve is Resolver.Resolve behind the optional separator cache.
func (e *Engine) resolve(tag, code string) core.SeparatorSet {
	if e.separators == nil {
		return e.resolver.Resolve(tag, code)
	}
	key := tag + "|" + code
	if set, ok := e.separators.Get(key); ok {
		return set
	}
	set := e.resolver.Resolve(tag, code)
	e.separators.Set(key, set)
	return set
}

// currencyFor applies inference to the configured currency, if any.
func (e *Engine) currencyFor(tag string) string {
	configured := ""
	if e.preferences != nil {
		configured = e.preferences.Preferences().CurrencyCode
	}
	return e.inferrer.Infer(tag, configured)
}
