package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "91", cfg.Delivery.CountryCode)
	assert.Equal(t, "app", cfg.Delivery.LinkStyle)
	assert.Equal(t, "en-IN", cfg.Delivery.Locale)
	assert.Equal(t, "INV", cfg.Invoice.NumberPrefix)
}

func TestLoad_OverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
user:
  email: owner@example.com
delivery:
  link_style: web
`)
	require.NoError(t, os.WriteFile(path, yaml, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", cfg.User.Email)
	assert.Equal(t, "web", cfg.Delivery.LinkStyle)
	assert.Equal(t, "91", cfg.Delivery.CountryCode)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"country code": "delivery:\n  country_code: \"+91\"\n",
		"link style":   "delivery:\n  link_style: sms\n",
		"log level":    "logging:\n  level: loud\n",
		"bad yaml":     "delivery: [",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "db", "billbook.db")
	cfg.User.Email = "owner@example.com"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "data", "billbook.db")
	cfg.Logging.Path = filepath.Join(dir, "logs", "billbook.log")

	require.NoError(t, cfg.EnsureDirectories())

	assert.DirExists(t, filepath.Join(dir, "data"))
	assert.DirExists(t, filepath.Join(dir, "logs"))
}
