package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origDir := os.Getenv("DATA_DIR")
	defer os.Setenv("DATA_DIR", origDir)

	os.Setenv("DATA_DIR", "/srv/clippings")
	os.Setenv("MAX_UPLOAD_BYTES", "1048576")
	os.Setenv("MIRROR_USE_SSL", "true")
	defer func() {
		os.Unsetenv("MAX_UPLOAD_BYTES")
		os.Unsetenv("MIRROR_USE_SSL")
	}()

	cfg := Load()

	assert.Equal(t, "/srv/clippings", cfg.Storage.DataDir)
	assert.Equal(t, int64(1048576), cfg.Storage.MaxUploadBytes)
	assert.True(t, cfg.Mirror.UseSSL)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("ADMIN_USER")
	os.Unsetenv("SCAN_SCHEDULE")

	cfg := Load()

	assert.Equal(t, "ntpc", cfg.Auth.Username)
	assert.Equal(t, "clippings.json", cfg.Storage.CatalogPath)
	assert.Empty(t, cfg.ScanSchedule)
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
