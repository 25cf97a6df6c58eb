package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("REPORT_DIR", "/var/reports")
	os.Setenv("REPORT_ARCHIVE_ENABLED", "true")
	defer os.Unsetenv("REPORT_DIR")
	defer os.Unsetenv("REPORT_ARCHIVE_ENABLED")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "/var/reports", cfg.Report.Dir)
	assert.True(t, cfg.Report.ArchiveEnabled)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("REPORT_DIR")
	os.Unsetenv("STATIC_DIR")
	os.Unsetenv("REPORT_ARCHIVE_ENABLED")

	cfg := Load()

	assert.Equal(t, "reports", cfg.Report.Dir)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.False(t, cfg.Report.ArchiveEnabled)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
