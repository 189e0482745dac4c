// Package i18n resolves validation message keys into user-facing text.
package i18n

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys returned by the validation rules.
const (
	KeyRequired         = "validation.required"
	KeyDateInvalid      = "validation.date.invalid"
	KeyDateFuture       = "validation.date.future"
	KeyDatePreviousYear = "validation.date.previous_year"
	KeyAmountSeparator  = "validation.amount.separator"
	KeyAmountInvalid    = "validation.amount.invalid"
	KeyIntegerInvalid   = "validation.integer.invalid"
	KeyIntegerRange     = "validation.integer.range"
	KeyIntegerFraction  = "validation.integer.fraction"
)

// Translator turns a key and its arguments into a message.
type Translator interface {
	Translate(key string, args ...any) string
}

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyRequired:         "This field is required",
		KeyDateInvalid:      "Enter a valid date",
		KeyDateFuture:       "The date cannot be in the future",
		KeyDatePreviousYear: "The date must be in the current year (%d)",
		KeyAmountSeparator:  "Use %s as the decimal separator",
		KeyAmountInvalid:    "Enter an amount greater than zero",
		KeyIntegerInvalid:   "Enter a number",
		KeyIntegerRange:     "Enter a number between %d and %d",
		KeyIntegerFraction:  "Enter a whole number",
	},
	language.Italian: {
		KeyRequired:         "Campo obbligatorio",
		KeyDateInvalid:      "Inserisci una data valida",
		KeyDateFuture:       "La data non può essere nel futuro",
		KeyDatePreviousYear: "La data deve essere nell'anno corrente (%d)",
		KeyAmountSeparator:  "Usa %s come separatore decimale",
		KeyAmountInvalid:    "Inserisci un importo maggiore di zero",
		KeyIntegerInvalid:   "Inserisci un numero",
		KeyIntegerRange:     "Inserisci un numero tra %d e %d",
		KeyIntegerFraction:  "Inserisci un numero intero",
	},
}

var supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(supported)

// Catalog is a Translator backed by an x/text message catalog.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog returns a Catalog for the supported language closest to
// locale; English when nothing matches.
func NewCatalog(locale string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			// Keys and messages are static; SetString only fails on
			// malformed input.
			_ = b.SetString(tag, key, msg)
		}
	}

	tag := language.English
	if t, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(t)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Language reports the language messages are rendered in.
func (c *Catalog) Language() string {
	return c.tag.String()
}

func (c *Catalog) Translate(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}

// Catalogs hands out one shared Catalog per supported language.
type Catalogs struct {
	mu     sync.Mutex
	byLang map[string]*Catalog
}

func NewCatalogs() *Catalogs {
	return &Catalogs{byLang: make(map[string]*Catalog)}
}

// For returns the Catalog serving locale.
func (c *Catalogs) For(locale string) *Catalog {
	cat := NewCatalog(locale)
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.byLang[cat.Language()]; ok {
		return cached
	}
	c.byLang[cat.Language()] = cat
	return cat
}
