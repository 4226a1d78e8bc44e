package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the locale every load falls back to.
const DefaultLanguage = "en"

// NormalizeLocale lower-cases and trims a locale identifier and converts
// underscores to dashes (`pt_BR` -> `pt-br`).
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	return strings.ReplaceAll(locale, "_", "-")
}

// BaseLanguage returns the base language of a locale (`fr-ca` -> `fr`).
// It returns an empty string when the identifier is not a valid BCP 47 tag.
func BaseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// fallbackChain lists the locales Load tries, in order, without duplicates.
func fallbackChain(locale, defaultLocale string) []string {
	chain := make([]string, 0, 3)
	add := func(l string) {
		if l == "" {
			return
		}
		for _, existing := range chain {
			if existing == l {
				return
			}
		}
		chain = append(chain, l)
	}

	locale = NormalizeLocale(locale)
	add(locale)
	add(BaseLanguage(locale))
	add(NormalizeLocale(defaultLocale))
	return chain
}

// validLocaleName rejects identifiers that could escape the catalog directory.
func validLocaleName(locale string) bool {
	if locale == "" || len(locale) > 35 {
		return false
	}
	for _, r := range locale {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
