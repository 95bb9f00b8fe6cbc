package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bookrental/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "DATABASE_DSN", "TOKEN_TTL", "RABBITMQ_URL", "SEED_BOOKS"} {
		unsetEnv(t, key)
	}
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5700", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "book_rental.db", cfg.DatabaseDSN)
	assert.Equal(t, "secret", cfg.TokenSecret)
	assert.Zero(t, cfg.TokenTTL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.True(t, cfg.SeedBooks)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("SEED_BOOKS", "false")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.SeedBooks)
}

func TestLoad_EnvFile(t *testing.T) {
	unsetEnv(t, "ACCESS_TOKEN_SECRET")
	unsetEnv(t, "APP_PORT")

	path := filepath.Join(t.TempDir(), "config.env")
	require.NoError(t, os.WriteFile(path, []byte("ACCESS_TOKEN_SECRET=from-file\nAPP_PORT=:9090\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TokenSecret)
	assert.Equal(t, ":9090", cfg.AppPort)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	unsetEnv(t, "ACCESS_TOKEN_SECRET")
	_, err := config.Load("")
	assert.ErrorContains(t, err, "ACCESS_TOKEN_SECRET")

	t.Setenv("ACCESS_TOKEN_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "-1h")
	_, err = config.Load("")
	assert.ErrorContains(t, err, "TOKEN_TTL")
}
