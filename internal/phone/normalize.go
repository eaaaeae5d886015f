// Package phone normalizes free-form phone numbers into the digit form
// expected by messaging deep links.
package phone

import "strings"

// DefaultCountryCode is prepended to bare 10-digit national numbers (India)
const DefaultCountryCode = "91"

// Normalizer strips formatting and applies a country code to national numbers
type Normalizer struct {
	CountryCode string
}

// NewNormalizer returns a Normalizer for the given country code, using the default when empty
func NewNormalizer(countryCode string) Normalizer {
	cc := digitsOnly(countryCode)
	if cc == "" {
		cc = DefaultCountryCode
	}
	return Normalizer{CountryCode: cc}
}

// Normalize normalizes raw with the default country code
func Normalize(raw string) string {
	return Normalizer{CountryCode: DefaultCountryCode}.Normalize(raw)
}

// Normalize keeps only decimal digits and prefixes the country code when exactly
// 10 digits remain. Other lengths pass through unchanged.
func (n Normalizer) Normalize(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) == 10 {
		return n.CountryCode + digits
	}
	return digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
