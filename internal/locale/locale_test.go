package locale

import (
	"errors"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

// brokenFacility fails every construction, like a platform without
// locale data.
type brokenFacility struct{}

func (brokenFacility) NumberFormatter(string, NumberOptions) (Formatter, error) {
	return nil, errors.New("locale data unavailable")
}

func (brokenFacility) CurrencyFormatter(string, string, CurrencyOptions) (Formatter, error) {
	return nil, errors.New("locale data unavailable")
}

func (brokenFacility) CurrencyDigits(string) (int, error) {
	return 0, errors.New("locale data unavailable")
}

// panickingFacility panics instead of returning an error.
type panickingFacility struct{ brokenFacility }

func (panickingFacility) NumberFormatter(string, NumberOptions) (Formatter, error) {
	panic("formatter exploded")
}

// stubFormatter returns a fixed string.
type stubFormatter string

func (s stubFormatter) Format(float64) string { return string(s) }

// ungroupedFacility prints the probe without any group marker.
type ungroupedFacility struct{ brokenFacility }

func (ungroupedFacility) NumberFormatter(string, NumberOptions) (Formatter, error) {
	return stubFormatter("1111111,11"), nil
}

func TestCanonicalize(t *testing.T) {
	tests := map[string]string{
		"en-us":      "en-US",
		"EN_gb":      "en-GB",
		" fr-ca ":    "fr-CA",
		"zh-hant-tw": "zh-Hant-TW",
		"es-419":     "es-419",
		"DE":         "de",
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Canonicalize(in), "Canonicalize(%q)", in)
	}
	assert.Equal(t, "pt", Language("PT_br"))
}

func TestValid(t *testing.T) {
	for _, tag := range []string{"en-US", "it_it", "zh-Hant-TW", "de"} {
		assert.True(t, Valid(tag), tag)
	}
	for _, tag := range []string{"", "   ", "not a locale!!", "e"} {
		assert.False(t, Valid(tag), tag)
	}
}

func TestInferCurrency(t *testing.T) {
	inf := NewInferrer("")
	tests := []struct {
		name       string
		locale     string
		configured string
		want       string
	}{
		{"canadian french", "fr-CA", "USD", "CAD"},
		{"japanese", "ja-JP", "USD", "JPY"},
		{"explicit override wins", "en-US", "GBP", "GBP"},
		{"override is upper-cased", "de-DE", "chf", "CHF"},
		{"non canonical tag", "fr_ca", "USD", "CAD"},
		{"language fallback", "de-LU", "USD", "EUR"},
		{"numeric region uses language", "es-419", "USD", "EUR"},
		{"unknown locale keeps default", "xx-YY", "USD", "USD"},
		{"empty configured infers", "it-IT", "", "EUR"},
		{"lowercase default is still the sentinel", "sv-SE", "usd", "SEK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inf.Infer(tt.locale, tt.configured))
		})
	}
}

func TestInferCurrencyCustomDefault(t *testing.T) {
	inf := NewInferrer("eur")
	assert.Equal(t, "JPY", inf.Infer("ja-JP", "EUR"))
	assert.Equal(t, "USD", inf.Infer("ja-JP", "USD"), "USD is an explicit choice when the default is EUR")
	assert.Equal(t, "EUR", inf.Infer("xx", "EUR"))
}

func TestResolveSeparators(t *testing.T) {
	r := NewResolver(XText(), "USD")

	us := r.Resolve("en-US", "USD")
	assert.Equal(t, core.SeparatorSet{Decimal: ".", Group: ",", CurrencySymbol: "$"}, us)

	de := r.Resolve("de-DE", "EUR")
	assert.Equal(t, ",", de.Decimal)
	assert.Equal(t, ".", de.Group)
	assert.Equal(t, "€", de.CurrencySymbol)

	fr := r.Resolve("fr-FR", "EUR")
	assert.Equal(t, ",", fr.Decimal)
	g, _ := utf8.DecodeRuneInString(fr.Group)
	assert.True(t, unicode.IsSpace(g), "french group separator %q should be a space", fr.Group)

	assert.Equal(t, us, r.Separators("en-US"))
}

func TestResolveFallbacks(t *testing.T) {
	want := core.SeparatorSet{Decimal: ".", Group: ",", CurrencySymbol: "$"}

	t.Run("malformed locale", func(t *testing.T) {
		assert.Equal(t, want, NewResolver(XText(), "USD").Resolve("not a locale!!", "USD"))
	})
	t.Run("empty locale", func(t *testing.T) {
		assert.Equal(t, want, NewResolver(XText(), "USD").Resolve("", "USD"))
	})
	t.Run("facility errors", func(t *testing.T) {
		assert.Equal(t, want, NewResolver(brokenFacility{}, "USD").Resolve("en-US", "USD"))
	})
	t.Run("facility panics", func(t *testing.T) {
		require.NotPanics(t, func() {
			assert.Equal(t, want, NewResolver(panickingFacility{}, "USD").Resolve("en-US", "USD"))
		})
	})
	t.Run("missing group marker", func(t *testing.T) {
		set := NewResolver(ungroupedFacility{}, "USD").Resolve("es-ES", "EUR")
		assert.Equal(t, ",", set.Decimal)
		assert.Equal(t, ".", set.Group)
		assert.Equal(t, "$", set.CurrencySymbol)
	})
}

func TestMarkers(t *testing.T) {
	r := NewResolver(XText(), "USD")

	markers := r.Markers("en-US", "usd")
	assert.Contains(t, markers, "USD")
	assert.Contains(t, markers, "$")
	assert.Contains(t, markers, "US dollars")
	for i := 1; i < len(markers); i++ {
		assert.GreaterOrEqual(t, len(markers[i-1]), len(markers[i]), "markers must be longest first")
	}

	assert.Equal(t, []string{"QQQ"}, r.Markers("en-US", "QQQ"))
	assert.Equal(t, []string{"EUR"}, NewResolver(brokenFacility{}, "USD").Markers("en-US", "eur"))
	assert.Panics(t, func() { NewResolver(panickingFacility{}, "USD").Markers("en-US", "EUR") })
}

func TestCurrencyFormatter(t *testing.T) {
	f := XText()
	base := CurrencyOptions{
		NumberOptions: NumberOptions{MinFractionDigits: 2, MaxFractionDigits: 2, UseGrouping: true},
		Display:       core.DisplaySymbol,
		Sign:          core.SignStandard,
	}

	tests := []struct {
		name   string
		mutate func(o *CurrencyOptions)
		amount float64
		want   string
	}{
		{"symbol", func(o *CurrencyOptions) {}, 1234.56, "$1,234.56"},
		{"rounds to max digits", func(o *CurrencyOptions) {}, 1234.567, "$1,234.57"},
		{"pads to min digits", func(o *CurrencyOptions) {}, 5, "$5.00"},
		{"no grouping", func(o *CurrencyOptions) { o.UseGrouping = false }, 1234.56, "$1234.56"},
		{"standard negative", func(o *CurrencyOptions) {}, -1234.56, "-$1,234.56"},
		{"accounting negative", func(o *CurrencyOptions) { o.Sign = core.SignAccounting }, -1234.56, "($1,234.56)"},
		{"accounting positive", func(o *CurrencyOptions) { o.Sign = core.SignAccounting }, 3, "$3.00"},
		{"code", func(o *CurrencyOptions) { o.Display = core.DisplayCode }, 1234.56, "USD\u00a01,234.56"},
		{"name", func(o *CurrencyOptions) { o.Display = core.DisplayName }, 2, "2.00\u00a0US dollars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			cf, err := f.CurrencyFormatter("en-US", "USD", opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cf.Format(tt.amount))
		})
	}
}

func TestCurrencyFormatterSuffixLocale(t *testing.T) {
	cf, err := XText().CurrencyFormatter("de-DE", "EUR", CurrencyOptions{
		NumberOptions: NumberOptions{MinFractionDigits: 2, MaxFractionDigits: 2, UseGrouping: true},
		Display:       core.DisplaySymbol,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.234,56\u00a0€", cf.Format(1234.56))
}

func TestCurrencyFormatterErrors(t *testing.T) {
	_, err := XText().CurrencyFormatter("en-US", "QQQ", CurrencyOptions{})
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = XText().CurrencyFormatter("", "USD", CurrencyOptions{})
	assert.ErrorIs(t, err, ErrEmptyLocale)

	_, err = XText().NumberFormatter("not a locale!!", NumberOptions{})
	assert.Error(t, err)
}

func TestCurrencyDigits(t *testing.T) {
	f := XText()
	for code, want := range map[string]int{"USD": 2, "EUR": 2, "JPY": 0} {
		got, err := f.CurrencyDigits(code)
		require.NoError(t, err)
		assert.Equal(t, want, got, code)
	}
	_, err := f.CurrencyDigits("QQQ")
	assert.True(t, strings.Contains(err.Error(), "QQQ"))
}
