package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ten digits with space", "98765 43210", "919876543210"},
		{"already international", "+91-9876543210", "919876543210"},
		{"empty", "", ""},
		{"garbage", "call me", ""},
		{"parenthesised", "(987) 654-3210", "919876543210"},
		{"eleven digits untouched", "09876543210", "09876543210"},
		{"short number untouched", "12345", "12345"},
		{"non-ascii digits dropped", "９876543210", "876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizer_CustomCountryCode(t *testing.T) {
	n := NewNormalizer("+1")
	assert.Equal(t, "12025550123", n.Normalize("202-555-0123"))
	assert.Equal(t, "442071838750", n.Normalize("+44 20 7183 8750"))
}

func TestNewNormalizer_DefaultsWhenEmpty(t *testing.T) {
	assert.Equal(t, DefaultCountryCode, NewNormalizer("").CountryCode)
	assert.Equal(t, DefaultCountryCode, NewNormalizer("n/a").CountryCode)
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize("98765 43210")
	assert.Equal(t, once, Normalize(once))
}
