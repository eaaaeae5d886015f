package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appDirName = "billbook"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// User identity (selects the store settings document)
	User UserConfig `yaml:"user"`

	// Invoice numbering
	Invoice InvoiceConfig `yaml:"invoice"`

	// WhatsApp delivery
	Delivery DeliveryConfig `yaml:"delivery"`

	Logging LoggingConfig `yaml:"logging"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type UserConfig struct {
	Email string `yaml:"email"`
}

type InvoiceConfig struct {
	NumberPrefix string `yaml:"number_prefix"` // Invoice number prefix (e.g., "INV")
}

type DeliveryConfig struct {
	CountryCode string `yaml:"country_code"` // Prefixed to 10-digit numbers
	LinkStyle   string `yaml:"link_style"`   // "app" (whatsapp://) or "web" (https://wa.me)
	Locale      string `yaml:"locale"`       // BCP 47 tag used for amounts
	DateLayout  string `yaml:"date_layout"`  // Go time layout for the message date
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", appDirName)
	}
	return filepath.Join(homeDir, ".config", appDirName)
}

// DefaultConfigPath returns ~/.config/billbook/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := configDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "billbook.db"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix: "INV",
		},
		Delivery: DeliveryConfig{
			CountryCode: "91",
			LinkStyle:   "app",
			Locale:      "en-IN",
			DateLayout:  "02/01/2006",
		},
		Logging: LoggingConfig{
			Level: "info",
			Path:  filepath.Join(dir, "billbook.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate checks values that would otherwise fail later at delivery time
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	for _, r := range c.Delivery.CountryCode {
		if r < '0' || r > '9' {
			return fmt.Errorf("delivery.country_code must be digits only, got %q", c.Delivery.CountryCode)
		}
	}
	switch strings.ToLower(c.Delivery.LinkStyle) {
	case "", "app", "web":
	default:
		return fmt.Errorf("delivery.link_style must be app or web, got %q", c.Delivery.LinkStyle)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognised", c.Logging.Level)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database and log directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0755); err != nil {
		return err
	}

	if c.Logging.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Logging.Path), 0755); err != nil {
			return err
		}
	}

	return nil
}
