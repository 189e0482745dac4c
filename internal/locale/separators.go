package locale

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"saldo/internal/core"
)

// probe has enough integer digits to be grouped even in locales with a
// minimum grouping size of two.
const probe = 1111111.11

const (
	fallbackDecimal = "."
	fallbackGroup   = ","
	fallbackSymbol  = "$"
)

// Resolver reads separators and currency markers back from formatted probe
// values. It never fails: anything the facility cannot answer is replaced
// by fallback characters.
type Resolver struct {
	facility      Facility
	probeCurrency string
}

// NewResolver returns a Resolver over facility; probeCurrency is used by
// Separators when no currency is given.
func NewResolver(facility Facility, probeCurrency string) *Resolver {
	if probeCurrency == "" {
		probeCurrency = SystemDefaultCurrency
	}
	return &Resolver{facility: facility, probeCurrency: strings.ToUpper(probeCurrency)}
}

// Separators resolves the separator set of locale for the probe currency.
func (r *Resolver) Separators(locale string) core.SeparatorSet {
	return r.Resolve(locale, r.probeCurrency)
}

// Resolve resolves the separator set of a (locale, currency) pair.
func (r *Resolver) Resolve(locale, code string) (set core.SeparatorSet) {
	set = core.SeparatorSet{Decimal: fallbackDecimal, Group: fallbackGroup, CurrencySymbol: fallbackSymbol}
	defer func() {
		if recover() != nil {
			set = core.SeparatorSet{Decimal: fallbackDecimal, Group: fallbackGroup, CurrencySymbol: fallbackSymbol}
		}
	}()

	nf, err := r.facility.NumberFormatter(locale, NumberOptions{MinFractionDigits: 2, MaxFractionDigits: 2, UseGrouping: true})
	if err == nil {
		if dec, group, ok := readSeparators(nf.Format(probe)); ok {
			set.Decimal, set.Group = dec, group
		}
	}
	if set.Group == "" || set.Group == set.Decimal {
		set.Group = otherSeparator(set.Decimal)
	}

	if sym, err := r.marker(locale, code, core.DisplaySymbol); err == nil && sym != "" {
		set.CurrencySymbol = sym
	}
	return set
}

// Markers returns every string the facility may print for code in locale
// (symbol, narrow symbol, ISO code, name), longest first. The ISO code is
// always present. Unlike Resolve, a panicking facility is not recovered
// here; callers decide how to report it.
func (r *Resolver) Markers(locale, code string) []string {
	code = strings.ToUpper(code)
	seen := map[string]bool{code: true}
	markers := []string{code}

	for _, mode := range []core.DisplayMode{core.DisplayName, core.DisplaySymbol, core.DisplayNarrowSymbol, core.DisplayCode} {
		m, err := r.marker(locale, code, mode)
		if err != nil || m == "" || seen[m] {
			continue
		}
		seen[m] = true
		markers = append(markers, m)
	}
	sort.SliceStable(markers, func(i, j int) bool {
		return len(markers[i]) > len(markers[j])
	})
	return markers
}

// marker formats 1 with and without the currency and returns the
// difference.
func (r *Resolver) marker(locale, code string, mode core.DisplayMode) (string, error) {
	plain := NumberOptions{UseGrouping: true}
	nf, err := r.facility.NumberFormatter(locale, plain)
	if err != nil {
		return "", err
	}
	cf, err := r.facility.CurrencyFormatter(locale, code, CurrencyOptions{NumberOptions: plain, Display: mode})
	if err != nil {
		return "", err
	}
	num := nf.Format(1)
	s := cf.Format(1)
	if !strings.Contains(s, num) {
		return "", fmt.Errorf("currency output %q does not contain %q", s, num)
	}
	return strings.TrimFunc(strings.Replace(s, num, "", 1), unicode.IsSpace), nil
}

// readSeparators splits a formatted probe into the non-digit runs between
// digits. The last run is the decimal mark and the first, when there are
// at least two, the group mark.
func readSeparators(s string) (decimal, group string, ok bool) {
	var runs []string
	var cur strings.Builder
	seenDigit := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			if seenDigit && cur.Len() > 0 {
				runs = append(runs, cur.String())
			}
			cur.Reset()
			seenDigit = true
			continue
		}
		if seenDigit {
			cur.WriteRune(r)
		}
	}
	if len(runs) == 0 {
		return "", "", false
	}
	decimal = runs[len(runs)-1]
	if len(runs) > 1 {
		group = runs[0]
	}
	return decimal, group, true
}

func otherSeparator(sep string) string {
	if sep == "," {
		return "."
	}
	return ","
}
