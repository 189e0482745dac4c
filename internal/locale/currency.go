package locale

import "strings"

// SystemDefaultCurrency is the currency assumed when nothing was configured.
const SystemDefaultCurrency = "USD"

// Inferrer decides the effective currency for a locale. A configured
// currency that differs from DefaultCurrency is treated as an explicit user
// choice and always wins.
type Inferrer struct {
	DefaultCurrency string
}

// NewInferrer returns an Inferrer whose sentinel is defaultCurrency, or
// SystemDefaultCurrency when empty.
func NewInferrer(defaultCurrency string) Inferrer {
	defaultCurrency = strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if defaultCurrency == "" {
		defaultCurrency = SystemDefaultCurrency
	}
	return Inferrer{DefaultCurrency: defaultCurrency}
}

// Infer returns the effective currency for locale. Lookup order: explicit
// configuration, full locale table, language table, DefaultCurrency.
func (i Inferrer) Infer(locale, configured string) string {
	def := i.DefaultCurrency
	if def == "" {
		def = SystemDefaultCurrency
	}
	configured = strings.ToUpper(strings.TrimSpace(configured))
	if configured != "" && configured != def {
		return configured
	}

	tag := Canonicalize(locale)
	if code, ok := localeCurrencies[tag]; ok {
		return code
	}
	if code, ok := languageCurrencies[Language(tag)]; ok {
		return code
	}
	return def
}

var localeCurrencies = map[string]string{
	"en-US": "USD",
	"en-GB": "GBP",
	"en-CA": "CAD",
	"en-AU": "AUD",
	"en-NZ": "NZD",
	"en-IE": "EUR",
	"en-IN": "INR",
	"en-SG": "SGD",
	"en-ZA": "ZAR",
	"fr-FR": "EUR",
	"fr-BE": "EUR",
	"fr-CA": "CAD",
	"fr-CH": "CHF",
	"de-DE": "EUR",
	"de-AT": "EUR",
	"de-CH": "CHF",
	"it-IT": "EUR",
	"it-CH": "CHF",
	"es-ES": "EUR",
	"es-MX": "MXN",
	"es-AR": "ARS",
	"es-CO": "COP",
	"es-CL": "CLP",
	"es-US": "USD",
	"pt-PT": "EUR",
	"pt-BR": "BRL",
	"nl-NL": "EUR",
	"nl-BE": "EUR",
	"sv-SE": "SEK",
	"nb-NO": "NOK",
	"da-DK": "DKK",
	"fi-FI": "EUR",
	"pl-PL": "PLN",
	"cs-CZ": "CZK",
	"hu-HU": "HUF",
	"ro-RO": "RON",
	"ru-RU": "RUB",
	"uk-UA": "UAH",
	"tr-TR": "TRY",
	"el-GR": "EUR",
	"he-IL": "ILS",
	"ar-SA": "SAR",
	"ar-AE": "AED",
	"hi-IN": "INR",
	"th-TH": "THB",
	"id-ID": "IDR",
	"ja-JP": "JPY",
	"ko-KR": "KRW",
	"zh-CN": "CNY",
	"zh-TW": "TWD",
	"zh-HK": "HKD",
}

var languageCurrencies = map[string]string{
	"en": "USD",
	"fr": "EUR",
	"de": "EUR",
	"it": "EUR",
	"es": "EUR",
	"pt": "BRL",
	"nl": "EUR",
	"sv": "SEK",
	"nb": "NOK",
	"no": "NOK",
	"da": "DKK",
	"fi": "EUR",
	"pl": "PLN",
	"cs": "CZK",
	"hu": "HUF",
	"ro": "RON",
	"ru": "RUB",
	"uk": "UAH",
	"tr": "TRY",
	"el": "EUR",
	"he": "ILS",
	"hi": "INR",
	"th": "THB",
	"id": "IDR",
	"ja": "JPY",
	"ko": "KRW",
	"zh": "CNY",
}

// Display names used for core.DisplayName. x/text carries no currency
// names, so unknown codes render as the code itself.
var currencyNames = map[string]string{
	"USD": "US dollars",
	"EUR": "euros",
	"GBP": "British pounds",
	"JPY": "Japanese yen",
	"CHF": "Swiss francs",
	"CAD": "Canadian dollars",
	"AUD": "Australian dollars",
	"NZD": "New Zealand dollars",
	"CNY": "Chinese yuan",
	"INR": "Indian rupees",
	"BRL": "Brazilian reals",
	"MXN": "Mexican pesos",
	"SEK": "Swedish kronor",
	"NOK": "Norwegian kroner",
	"DKK": "Danish kroner",
	"PLN": "Polish zlotys",
	"CZK": "Czech korunas",
	"HUF": "Hungarian forints",
	"KRW": "South Korean won",
	"TRY": "Turkish lira",
	"RUB": "Russian rubles",
	"ZAR": "South African rand",
}

func currencyName(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return code
}
