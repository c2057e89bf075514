package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetEnv(t, "CALC_DB", "CALC_SESSION", "CALC_LOG_LEVEL", "CALC_UNITS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cloudycalc", "calc.db"), cfg.DBPath)
	assert.Equal(t, "default", cfg.Session)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.Units)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CALC_DB", "/tmp/calc-test.db")
	t.Setenv("CALC_SESSION", "work")
	t.Setenv("CALC_LOG_LEVEL", "debug")
	t.Setenv("CALC_UNITS", "/etc/units.cue")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/calc-test.db", cfg.DBPath)
	assert.Equal(t, "work", cfg.Session)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/etc/units.cue", cfg.Units)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	unsetEnv(t, "CALC_SESSION")
	t.Setenv("CALC_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestParseEnvError(t *testing.T) {
	var cfg struct {
		Port int `env:"CALC_TEST_PORT" envDefault:"1"`
	}
	t.Setenv("CALC_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
