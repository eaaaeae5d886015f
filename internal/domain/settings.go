package domain

import (
	"encoding/base64"
	"strings"
	"time"
)

const (
	DefaultStoreName = "My Store"
	DefaultCurrency  = "₹"
)

// StoreSettings is the per-user settings document
type StoreSettings struct {
	UserKey   string
	Name      string
	Phone     string
	Address   string
	Currency  string
	UpdatedAt time.Time
}

// NewStoreSettings returns settings with defaults for the given user key
func NewStoreSettings(userKey string) *StoreSettings {
	return &StoreSettings{
		UserKey:   userKey,
		Currency:  DefaultCurrency,
		UpdatedAt: time.Now(),
	}
}

// DisplayName returns the store name, or the default label when unset
func (s *StoreSettings) DisplayName() string {
	if s == nil {
		return DefaultStoreName
	}
	if n := strings.TrimSpace(s.Name); n != "" {
		return n
	}
	return DefaultStoreName
}

// CurrencySymbol returns the configured symbol or the default
func (s *StoreSettings) CurrencySymbol() string {
	if s == nil || strings.TrimSpace(s.Currency) == "" {
		return DefaultCurrency
	}
	return s.Currency
}

// UserKey derives the settings lookup key from an email address
func UserKey(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return base64.StdEncoding.EncodeToString([]byte(normalized))
}
