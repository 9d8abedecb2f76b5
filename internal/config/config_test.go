package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GEOAPIFY_API_KEY", "GEOAPIFY_BASE_URL", "SUPERMARKET_STORE", "DATABASE_URL",
		"SUPABASE_URL", "SUPABASE_ANON_KEY", "FIRESTORE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"AUTH_MODE", "CORS_ALLOWED_ORIGINS", "CACHE_MAX_AGE_HOURS", "PLACES_MAX_CONCURRENCY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StoreMemory, cfg.SupermarketStore)
	assert.Equal(t, AuthModeHeader, cfg.AuthMode)
	assert.Equal(t, 24*time.Hour, cfg.CacheMaxAge())
	assert.Equal(t, 3, cfg.PlacesMaxConcurrency)
	assert.False(t, cfg.FirestoreEnabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `port: "9000"
geoapify_api_key: from-file
cache_max_age_hours: 12
cors_allowed_origins:
  - https://a.example
places_max_concurrency: 2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEOAPIFY_API_KEY", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://b.example, https://c.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "from-env", cfg.GeoapifyAPIKey)
	assert.Equal(t, 12*time.Hour, cfg.CacheMaxAge())
	assert.Equal(t, 2, cfg.PlacesMaxConcurrency)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without url", env: map[string]string{"SUPERMARKET_STORE": "postgres"}},
		{name: "supabase store without keys", env: map[string]string{"SUPERMARKET_STORE": "supabase"}},
		{name: "unknown store", env: map[string]string{"SUPERMARKET_STORE": "redis"}},
		{name: "supabase auth without keys", env: map[string]string{"AUTH_MODE": "supabase"}},
		{name: "non numeric max age", env: map[string]string{"CACHE_MAX_AGE_HOURS": "soon"}},
		{name: "zero concurrency", env: map[string]string{"PLACES_MAX_CONCURRENCY": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}
