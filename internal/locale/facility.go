package locale

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"saldo/internal/core"
)

var (
	ErrEmptyLocale     = errors.New("empty locale tag")
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// NumberOptions controls fraction digits and grouping.
type NumberOptions struct {
	MinFractionDigits int
	MaxFractionDigits int
	UseGrouping       bool
}

// CurrencyOptions extends NumberOptions with how the currency and the
// sign are rendered.
type CurrencyOptions struct {
	NumberOptions
	Display core.DisplayMode
	Sign    core.SignStyle
}

// Formatter renders a number for a fixed locale and set of options.
type Formatter interface {
	Format(v float64) string
}

// Facility is the locale formatting backend. Building a formatter may fail
// for malformed tags or unknown currency codes; a built formatter never
// fails.
type Facility interface {
	NumberFormatter(locale string, opts NumberOptions) (Formatter, error)
	CurrencyFormatter(locale, code string, opts CurrencyOptions) (Formatter, error)
	// CurrencyDigits returns the standard number of fraction digits of code.
	CurrencyDigits(code string) (int, error)
}

// XText returns the Facility backed by golang.org/x/text.
func XText() Facility {
	return xtextFacility{}
}

type xtextFacility struct{}

func (xtextFacility) tag(locale string) (language.Tag, error) {
	if strings.TrimSpace(locale) == "" {
		return language.Und, ErrEmptyLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return tag, nil
}

func (xtextFacility) unit(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w %q: %v", ErrUnknownCurrency, code, err)
	}
	return unit, nil
}

func (f xtextFacility) NumberFormatter(locale string, opts NumberOptions) (Formatter, error) {
	tag, err := f.tag(locale)
	if err != nil {
		return nil, err
	}
	return newNumberFormatter(tag, opts), nil
}

func (f xtextFacility) CurrencyFormatter(locale, code string, opts CurrencyOptions) (Formatter, error) {
	tag, err := f.tag(locale)
	if err != nil {
		return nil, err
	}
	unit, err := f.unit(code)
	if err != nil {
		return nil, err
	}

	nf := newNumberFormatter(tag, opts.NumberOptions)
	cf := currencyFormatter{
		number: nf,
		sign:   opts.Sign,
		layout: layoutFor(Canonicalize(locale)),
	}
	switch opts.Display {
	case core.DisplayCode:
		cf.marker = unit.String()
		cf.layout = cf.layout.spaced()
	case core.DisplayName:
		cf.marker = currencyName(unit.String())
		cf.layout = suffixSpaced
	case core.DisplayNarrowSymbol:
		cf.marker = nf.printer.Sprint(currency.NarrowSymbol(unit))
	default:
		cf.marker = nf.printer.Sprint(currency.Symbol(unit))
	}
	return cf, nil
}

func (f xtextFacility) CurrencyDigits(code string) (int, error) {
	unit, err := f.unit(code)
	if err != nil {
		return 0, err
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale, nil
}

type numberFormatter struct {
	printer *message.Printer
	opts    []number.Option
}

func newNumberFormatter(tag language.Tag, opts NumberOptions) numberFormatter {
	nopts := []number.Option{
		number.MinFractionDigits(opts.MinFractionDigits),
		number.MaxFractionDigits(opts.MaxFractionDigits),
	}
	if !opts.UseGrouping {
		nopts = append(nopts, number.NoSeparator())
	}
	return numberFormatter{
		printer: message.NewPrinter(tag),
		opts:    nopts,
	}
}

func (f numberFormatter) Format(v float64) string {
	return f.printer.Sprint(number.Decimal(v, f.opts...))
}

// layout is the position of the currency marker relative to the number.
// x/text does not expose CLDR currency patterns, so positions come from
// layoutFor.
type layout int

const (
	prefix layout = iota
	prefixSpaced
	suffixSpaced
)

func (l layout) spaced() layout {
	if l == prefix {
		return prefixSpaced
	}
	return l
}

const nbsp = "\u00a0"

type currencyFormatter struct {
	number numberFormatter
	marker string
	layout layout
	sign   core.SignStyle
}

func (f currencyFormatter) Format(v float64) string {
	negative := v < 0
	num := f.number.Format(math.Abs(v))

	var s string
	switch f.layout {
	case prefixSpaced:
		s = f.marker + nbsp + num
	case suffixSpaced:
		s = num + nbsp + f.marker
	default:
		s = f.marker + num
	}

	if !negative {
		return s
	}
	if f.sign == core.SignAccounting {
		return "(" + s + ")"
	}
	return "-" + s
}

// Locales whose layout differs from their language's.
var regionLayouts = map[string]layout{
	"pt-PT": suffixSpaced,
	"de-CH": prefixSpaced,
	"de-AT": prefixSpaced,
	"it-CH": prefixSpaced,
	"fr-CH": suffixSpaced,
	"es-MX": prefix,
	"es-US": prefix,
	"nl-BE": prefixSpaced,
}

var languageLayouts = map[string]layout{
	"nl": prefixSpaced,
	"pt": prefixSpaced,
	"de": suffixSpaced,
	"fr": suffixSpaced,
	"es": suffixSpaced,
	"it": suffixSpaced,
	"ca": suffixSpaced,
	"sv": suffixSpaced,
	"nb": suffixSpaced,
	"no": suffixSpaced,
	"nn": suffixSpaced,
	"da": suffixSpaced,
	"fi": suffixSpaced,
	"is": suffixSpaced,
	"pl": suffixSpaced,
	"cs": suffixSpaced,
	"sk": suffixSpaced,
	"sl": suffixSpaced,
	"hr": suffixSpaced,
	"ro": suffixSpaced,
	"bg": suffixSpaced,
	"el": suffixSpaced,
	"hu": suffixSpaced,
	"ru": suffixSpaced,
	"uk": suffixSpaced,
	"lt": suffixSpaced,
	"lv": suffixSpaced,
	"et": suffixSpaced,
	"vi": suffixSpaced,
	"he": suffixSpaced,
}

func layoutFor(tag string) layout {
	if l, ok := regionLayouts[tag]; ok {
		return l
	}
	if l, ok := languageLayouts[Language(tag)]; ok {
		return l
	}
	return prefix
}
