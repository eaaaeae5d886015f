package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/billbook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billbook.log")

	logger, err := New(config.LoggingConfig{Level: "info", Path: path}, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("delivered")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "delivered")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billbook.log")

	logger, err := New(config.LoggingConfig{Level: "error", Path: path}, true)
	require.NoError(t, err)

	logger.Debug("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New(config.LoggingConfig{}, false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
