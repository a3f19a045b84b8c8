package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func resetEnv(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Chdir(t.TempDir())
}

// A deployment with no .env file must still start from env vars alone.
func TestLoad_EnvOnly(t *testing.T) {
	resetEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5432")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, testSecret, cfg.JWT.Secret)
	assert.Equal(t, "8080", cfg.App.Port, "port default applies")
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration(), "expiration default applies")
}

func TestLoad_DotEnvFile(t *testing.T) {
	resetEnv(t)

	dir, err := os.Getwd()
	require.NoError(t, err)
	env := "JWT_SECRET=" + testSecret + "\nAPP_PORT=9090\nJWT_EXPIRATION_MS=60000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, time.Minute, cfg.JWT.Expiration())
}

func TestLoad_WeakSecret(t *testing.T) {
	resetEnv(t)
	t.Setenv("JWT_SECRET", "too-short")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrWeakJWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	resetEnv(t)

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrWeakJWTSecret)
}
