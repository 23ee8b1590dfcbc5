package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telconova/portal/internal/clients/http/telconova"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "POSTGRES_DSN", "SQLITE_PATH", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE",
		"TEMPORAL_DISABLED", "BACKEND_URL", "BACKEND_TIMEOUT", "COUNTRIES_URL", "COLOMBIA_URL",
		"RABBITMQ_URL", "NOTIFICATION_EXCHANGE", "CACHE_IDLE_TTL_HOURS", "CACHE_PURGE_INTERVAL_MINUTES",
		"VERIFICATION_CODE", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, telconova.DefaultBaseURL, cfg.BackendURL)
	require.Equal(t, DefaultVerificationCode, cfg.VerificationCode)
	require.Equal(t, DefaultCacheIdleTTL, cfg.CacheIdleTTL)
	require.Zero(t, cfg.CachePurgeInterval)
	require.Zero(t, cfg.BackendTimeout)
	require.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
backendUrl: http://backend.local
temporalDisabled: true
cacheIdleTtlHours: 12
cachePurgeIntervalMinutes: 15
verificationCode: "4321"
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("BACKEND_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Port)
	require.Equal(t, "http://backend.local", cfg.BackendURL)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, 12*time.Hour, cfg.CacheIdleTTL)
	require.Equal(t, 15*time.Minute, cfg.CachePurgeInterval)
	require.Equal(t, 5*time.Second, cfg.BackendTimeout)
	require.Equal(t, "4321", cfg.VerificationCode)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"CACHE_PURGE_INTERVAL_MINUTES": "0",
		"CACHE_IDLE_TTL_HOURS":         "soon",
		"BACKEND_TIMEOUT":              "-1s",
	}
	for key, value := range cases {
		clearConfigEnv(t)
		t.Setenv(key, value)
		_, err := LoadConfig()
		require.Error(t, err, key)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_AllowedOriginsFromEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allowedOrigins: [\"http://file.local\"]\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"http://file.local"}, cfg.AllowedOrigins)

	t.Setenv("ALLOWED_ORIGINS", " https://portal.telconova.co , ,http://localhost:3000")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"https://portal.telconova.co", "http://localhost:3000"}, cfg.AllowedOrigins)
}
