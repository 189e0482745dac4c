// Package locale resolves everything the money engine needs to know about
// a locale: canonical tags, separators, currency symbols and the currency a
// locale implies.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Canonicalize recases a BCP-47 tag: language lower, script title, region
// upper. Underscores are accepted as separators ("en_us" -> "en-US").
// Tags are not validated; unknown subtags pass through recased.
func Canonicalize(tag string) string {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return ""
	}
	parts := strings.Split(tag, "-")
	for i, p := range parts {
		switch {
		case i == 0:
			parts[i] = strings.ToLower(p)
		case len(p) == 2 || (len(p) == 3 && isDigits(p)):
			parts[i] = strings.ToUpper(p)
		case len(p) == 4:
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		default:
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, "-")
}

// Valid reports whether tag parses as a BCP-47 language tag.
func Valid(tag string) bool {
	tag = Canonicalize(tag)
	if tag == "" {
		return false
	}
	_, err := language.Parse(tag)
	return err == nil
}

// Language returns the lower-cased language subtag of tag.
func Language(tag string) string {
	tag = Canonicalize(tag)
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
