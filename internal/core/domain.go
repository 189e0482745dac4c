package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	DisplaySymbol       DisplayMode = "symbol"
	DisplayCode         DisplayMode = "code"
	DisplayName         DisplayMode = "name"
	DisplayNarrowSymbol DisplayMode = "narrowSymbol"
)

const (
	SignStandard   SignStyle = "standard"
	SignAccounting SignStyle = "accounting"
)

// MaxSupportedPrecision bounds the fraction digits a preference may request.
const MaxSupportedPrecision = 8

type (
	TransactionKind string

	// DisplayMode selects how the currency is rendered next to the number.
	DisplayMode string

	// SignStyle selects how negative amounts are rendered.
	SignStyle string

	Date struct {
		time.Time
	}

	// FormatPreference is owned by the settings collaborator and read-only
	// to the engine. MinPrecision is optional.
	FormatPreference struct {
		CurrencyCode string      `json:"currencyCode"`
		DisplayMode  DisplayMode `json:"displayMode"`
		SignStyle    SignStyle   `json:"signStyle"`
		MinPrecision *int        `json:"minPrecision,omitempty"`
		MaxPrecision int         `json:"maxPrecision"`
		UseGrouping  bool        `json:"useGrouping"`
	}

	// SeparatorSet is derived per (locale, currency) pair and never stored.
	SeparatorSet struct {
		Decimal        string `json:"decimal"`
		Group          string `json:"group"`
		CurrencySymbol string `json:"currencySymbol"`
	}

	Transaction struct {
		Kind        TransactionKind
		Date        Date
		Description string
		Amount      float64
		Currency    string
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidDisplayMode = errors.New("invalid display mode")
	ErrInvalidSignStyle   = errors.New("invalid sign style")
	ErrInvalidPrecision   = errors.New("invalid precision")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// DefaultFormatPreference returns the preference used when nothing was saved.
func DefaultFormatPreference(currencyCode string) FormatPreference {
	return FormatPreference{
		CurrencyCode: strings.ToUpper(currencyCode),
		DisplayMode:  DisplaySymbol,
		SignStyle:    SignStandard,
		MaxPrecision: 2,
		UseGrouping:  true,
	}
}

// Valid reports whether m is a known display mode.
func (m DisplayMode) Valid() bool {
	switch m {
	case DisplaySymbol, DisplayCode, DisplayName, DisplayNarrowSymbol:
		return true
	}
	return false
}

// Valid reports whether s is a known sign style.
func (s SignStyle) Valid() bool {
	return s == SignStandard || s == SignAccounting
}

// Validate is used by the settings layer before a preference reaches the
// formatter; the formatter itself assumes a valid preference.
func (p FormatPreference) Validate() error {
	if !IsCurrencyCode(p.CurrencyCode) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, p.CurrencyCode)
	}
	if !p.DisplayMode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayMode, p.DisplayMode)
	}
	if !p.SignStyle.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSignStyle, p.SignStyle)
	}
	if p.MaxPrecision < 0 || p.MaxPrecision > MaxSupportedPrecision {
		return fmt.Errorf("%w: max precision %d out of range", ErrInvalidPrecision, p.MaxPrecision)
	}
	if p.MinPrecision != nil {
		if *p.MinPrecision < 0 {
			return fmt.Errorf("%w: min precision %d is negative", ErrInvalidPrecision, *p.MinPrecision)
		}
		if *p.MinPrecision > p.MaxPrecision {
			return fmt.Errorf("%w: min precision %d exceeds max precision %d", ErrInvalidPrecision, *p.MinPrecision, p.MaxPrecision)
		}
	}
	return nil
}

// IsCurrencyCode reports whether code has the shape of an ISO-4217 code.
// It does not check that the code is assigned.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (t Transaction) Validate() error {
	switch t.Kind {
	case Income, Expense:
	default:
		return ErrInvalidKind
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !IsValidAmount(t.Amount) {
		return ErrInvalidAmount
	}
	if !IsCurrencyCode(t.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// Signed returns the amount with the sign a running balance applies to it.
func (t Transaction) Signed() float64 {
	if t.Kind == Expense {
		return -t.Amount
	}
	return t.Amount
}
