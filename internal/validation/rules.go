// Package validation implements the form rules applied to transaction
// input before it reaches the amount parser.
package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"saldo/internal/i18n"
	"saldo/internal/log"
	"saldo/internal/money"
)

// LocaleProvider exposes the active locale.
type LocaleProvider interface {
	Locale() string
}

// StaticLocale is a LocaleProvider that never changes.
type StaticLocale string

func (s StaticLocale) Locale() string { return string(s) }

// RuleError is a failed rule. Key identifies the message independently of
// the language it was rendered in.
type RuleError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (e *RuleError) Error() string { return e.Message }

type Option func(*Rules)

// WithClock replaces time.Now, used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(r *Rules) { r.now = now }
}

func WithLogger(l money.Logger) Option {
	return func(r *Rules) { r.logger = l }
}

type Rules struct {
	engine     *money.Engine
	locales    LocaleProvider
	translator i18n.Translator
	logger     money.Logger
	now        func() time.Time
}

func NewRules(engine *money.Engine, locales LocaleProvider, translator i18n.Translator, opts ...Option) *Rules {
	r := &Rules{
		engine:     engine,
		locales:    locales,
		translator: translator,
		logger:     log.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Rules) fail(key string, args ...any) *RuleError {
	return &RuleError{Key: key, Message: r.translator.Translate(key, args...)}
}

// Required fails for nil, blank strings, numeric zero, NaN and false.
func (r *Rules) Required(v any) error {
	if isEmpty(v) {
		return r.fail(i18n.KeyRequired)
	}
	return nil
}

// RequiredZeroOk is Required except that a numeric zero passes.
func (r *Rules) RequiredZeroOk(v any) error {
	if isZero(v) {
		return nil
	}
	return r.Required(v)
}

var isoDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Date checks a YYYY-MM-DD value: a real calendar day, not after today and
// inside the current year.
func (r *Rules) Date(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return r.fail(i18n.KeyRequired)
	}

	now := r.now()
	d, ok := parseCalendarDate(v, now.Location())
	if !ok {
		r.logger.LogWarning("invalid calendar date", log.Scope{
			Module: log.ComponentValidation,
			Action: log.OpValidate,
			Data:   log.NewFields().WithInput(v).WithRule("date"),
		})
		return r.fail(i18n.KeyDateInvalid)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.After(today) {
		return r.fail(i18n.KeyDateFuture)
	}
	if d.Year() != now.Year() {
		return r.fail(i18n.KeyDatePreviousYear, now.Year())
	}
	return nil
}

// parseCalendarDate rejects dates that time.Date would normalise, such as
// February 30th.
func parseCalendarDate(s string, loc *time.Location) (time.Time, bool) {
	m := isoDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Amount checks a raw amount against the active locale.
func (r *Rules) Amount(v string) error {
	if strings.TrimSpace(v) == "" {
		return r.fail(i18n.KeyRequired)
	}
	loc := r.locales.Locale()
	if !r.HasCorrectSeparator(v) {
		return r.fail(i18n.KeyAmountSeparator, r.engine.Separators(loc).Decimal)
	}
	if _, ok := r.engine.Parse(v, loc); !ok {
		return r.fail(i18n.KeyAmountInvalid)
	}
	return nil
}

var misplacedDecimal = map[string]*regexp.Regexp{
	".": regexp.MustCompile(`\.\d{1,2}$`),
	",": regexp.MustCompile(`,\d{1,2}$`),
}

// HasCorrectSeparator reports false when v ends with the other
// convention's decimal mark followed by one or two digits, e.g. "12.50"
// under de-DE.
func (r *Rules) HasCorrectSeparator(v string) bool {
	dec := r.engine.Separators(r.locales.Locale()).Decimal
	other := ","
	if dec == "," {
		other = "."
	}
	s := strings.TrimRightFunc(strings.TrimSpace(v), func(c rune) bool {
		return !unicode.IsDigit(c)
	})
	return !misplacedDecimal[other].MatchString(s)
}

// BoundedInteger checks that v is a whole number in [min, max].
func (r *Rules) BoundedInteger(v string, min, max int) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return r.fail(i18n.KeyRequired)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return r.fail(i18n.KeyIntegerInvalid)
	}
	if f < float64(min) || f > float64(max) {
		return r.fail(i18n.KeyIntegerRange, min, max)
	}
	if f != math.Trunc(f) {
		return r.fail(i18n.KeyIntegerFraction)
	}
	return nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}
	f, ok := numeric(v)
	return ok && (f == 0 || math.IsNaN(f))
}

// isZero reports whether v is a numeric zero of any width, or a non-nil
// pointer to one.
func isZero(v any) bool {
	f, ok := numeric(v)
	return ok && f == 0
}

func numeric(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
