package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"http_addr":                      ":8080",
		"database_dsn":                   "postgres://db",
		"secret_key":                     "json-secret",
		"access_token_validity_duration": "1h",
		"archive_pdf":                    true,
		"cors_origins":                   []string{"https://portal.example"},
		"login_burst":                    3,
		"token_cache_ttl":                int64(2 * time.Minute),
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "json-secret", cfg.SecretKey)
		assert.Equal(t, time.Hour, cfg.AccessTokenValidityDuration)
		assert.True(t, cfg.ArchivePDF)
		assert.Equal(t, []string{"https://portal.example"}, cfg.CORSOrigins)
		assert.Equal(t, 3, cfg.LoginBurst)
		assert.Equal(t, 2*time.Minute, cfg.TokenCacheTTL)

		// absent keys keep their defaults
		assert.Equal(t, ":50052", cfg.HealthAddr)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(EnvServerConfig, path)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
	})

	t.Run("no file configured", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(EnvServerConfig, "")

		cfg := &Config{}
		parseJson(cfg)
		assert.Empty(t, cfg.HTTPAddr)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
