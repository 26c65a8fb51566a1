package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "REDIS_URL", "DATABASE_URL",
		"CAPTCHA_ENABLED", "CAPTCHA_SECRET", "SESSION_SECRET",
	} {
		// t.Setenv registers the restore, Unsetenv makes it truly absent.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.False(t, cfg.Production())
	require.False(t, cfg.CaptchaEnabled)
	require.Equal(t, BackendSample, cfg.Backend())
}

func TestLoad_RedisWinsOverPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tickets")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.Backend())
}

func TestLoad_PostgresWhenNoRedis(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tickets")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.Backend())
}

func TestLoad_CaptchaEnabledRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAPTCHA_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("CAPTCHA_SECRET", "provider-secret")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.CaptchaEnabled)
}

func TestProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Production())
}
