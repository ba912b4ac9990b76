package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DatabaseDriver)
	assert.Equal(t, 720, cfg.TokenTTLHours)
	assert.Equal(t, "0 10 0 * * *", cfg.StreakCron)
	assert.Equal(t, 30, cfg.MailRatePerMinute)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fitcrew.yaml")
	yamlBody := "port: \"9000\"\ndatabase_driver: sqlite\ndatabase_url: file.db\nredis_addr: localhost:6379\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "environment overrides file")
	assert.Equal(t, "sqlite", cfg.DatabaseDriver, "file overrides defaults")
	assert.Equal(t, "file.db", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsWeakSecretInProduction(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("APP_ENV", "production")

	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET", "default secret")

	t.Setenv("JWT_SECRET", "short-but-not-default")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET", "secret under 32 bytes")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())

	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.NoError(t, err, "default secret is fine outside production")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	assert.Equal(t, 2525, getEnvInt("SMTP_PORT", 2525))
}
