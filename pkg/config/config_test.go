package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("DOCTORS_URL", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDoctorsURL, cfg.DataSource.URL)
	assert.Equal(t, 30*time.Second, cfg.DataSource.FetchTimeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.ServerAddr())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCTORS_URL", "http://mock.local/doctors.json")
	t.Setenv("DOCTORS_FETCH_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://mock.local/doctors.json", cfg.DataSource.URL)
	assert.Equal(t, 5*time.Second, cfg.DataSource.FetchTimeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("DOCTORS_FETCH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.DataSource.FetchTimeout)
}

func TestLoad_ConfigFileIsOverriddenByEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
env: production
server:
  port: 7070
data_source:
  url: http://file.local/doctors.json
  fetch_timeout: 12s
cache:
  ttl_seconds: 60
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv(ConfigFileEnv, path)
	t.Setenv("SERVER_PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 7171, cfg.Server.Port)
	assert.Equal(t, "http://file.local/doctors.json", cfg.DataSource.URL)
	assert.Equal(t, 12*time.Second, cfg.DataSource.FetchTimeout)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
