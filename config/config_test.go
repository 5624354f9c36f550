package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes a variable for the duration of the test. t.Setenv both
// registers the restore cleanup and guards against t.Parallel.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "finflow")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "finflow")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_POOL_SIZE", "PORT",
		"JWT_ACCESS_TOKEN_DURATION", "JWT_REFRESH_TOKEN_DURATION",
	} {
		unsetEnv(t, key)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "finflow", cfg.DB.User)
	assert.Equal(t, 10, cfg.DB.MaxSize)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenDuration)
}

func TestLoadConfigOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_POOL_SIZE", "25")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "5m")
	t.Setenv("JWT_REFRESH_TOKEN_DURATION", "24h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
	assert.Equal(t, 25, cfg.DB.MaxSize)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenDuration)
}

func TestLoadConfigAggregatesMissingVars(t *testing.T) {
	setValidEnv(t)
	unsetEnv(t, "DB_USER")
	unsetEnv(t, "JWT_ACCESS_SECRET")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required environment variable: DB_USER")
	assert.Contains(t, err.Error(), "missing required environment variable: JWT_ACCESS_SECRET")
}

func TestLoadConfigRejectsEqualSecrets(t *testing.T) {
	setValidEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be equal")
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "fifteen minutes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value for DB_PORT")
	assert.Contains(t, err.Error(), "invalid value for JWT_ACCESS_TOKEN_DURATION")
}

func TestLoadConfigClampsPoolSize(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DB_POOL_SIZE", "1")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than minimum 2")
}
