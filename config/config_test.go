package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkgvcs.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.github.com", cfg.Hosting.APIURL)
	assert.Equal(t, Duration(time.Hour), cfg.Cache.TTL)
	assert.Equal(t, 50, cfg.Hosting.MaxCollaboratorPages)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[hosting]
api_url = "https://ghe.example.com/api/v3"
timeout = "5s"
max_retries = 1
max_collaborator_pages = 3

[cache]
ttl = "10m"

[storage]
bucket = "pulsar-lists"

[dev]
enabled = true
username = "dever"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.Hosting.APIURL)
	assert.Equal(t, Duration(5*time.Second), cfg.Hosting.Timeout)
	assert.Equal(t, 1, cfg.Hosting.MaxRetries)
	assert.Equal(t, 3, cfg.Hosting.MaxCollaboratorPages)
	assert.Equal(t, Duration(10*time.Minute), cfg.Cache.TTL)
	assert.Equal(t, "pulsar-lists", cfg.Storage.Bucket)
	assert.True(t, cfg.Dev.Enabled)
	assert.Equal(t, "dever", cfg.Dev.Username)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, Duration(30*time.Second), cfg.Cache.RefreshTimeout)
	assert.EqualValues(t, 5, cfg.Hosting.BreakerThreshold)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"unknown key", "[hosting]\napi_root = \"x\"\n"},
		{"zero ttl", "[cache]\nttl = \"0s\"\n"},
		{"dev without username", "[dev]\nenabled = true\n"},
		{"relative api url", "[hosting]\napi_url = \"api.github.com\"\n"},
		{"bad log level", "[log]\nlevel = \"loud\"\n"},
		{"not toml", "hosting = ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrConfigLoadFailed)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Hosting, cfg.Hosting)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"PKGVCS_HOSTING_API_URL":           "http://localhost:8080",
		"PKGVCS_HOSTING_MAX_RETRIES":       "0",
		"PKGVCS_HOSTING_BREAKER_THRESHOLD": "9",
		"PKGVCS_CACHE_TTL":                 "2m",
		"PKGVCS_STORAGE_DIR":               " ./lists ",
		"PKGVCS_DEV_ENABLED":               "true",
		"PKGVCS_DEV_USERNAME":              "dever",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8080", cfg.Hosting.APIURL)
	assert.Equal(t, 0, cfg.Hosting.MaxRetries)
	assert.EqualValues(t, 9, cfg.Hosting.BreakerThreshold)
	assert.Equal(t, Duration(2*time.Minute), cfg.Cache.TTL)
	assert.Equal(t, "./lists", cfg.Storage.Dir)
	assert.True(t, cfg.Dev.Enabled)
}

func TestApplyEnvJoinsErrors(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"PKGVCS_HOSTING_MAX_RETRIES": "many",
		"PKGVCS_CACHE_TTL":           "later",
		"PKGVCS_DEV_ENABLED":         "maybe",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	err := Default().applyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PKGVCS_HOSTING_MAX_RETRIES")
	assert.Contains(t, err.Error(), "PKGVCS_CACHE_TTL")
	assert.Contains(t, err.Error(), "PKGVCS_DEV_ENABLED")
}

func TestDurationText(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, Duration(90*time.Minute), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", string(text))

	require.Error(t, d.UnmarshalText([]byte("90")))
}

func TestOptionBuilders(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Len(t, cfg.ClientOptions(nil), 7)
	assert.Len(t, cfg.ServiceOptions(nil), 3)
	assert.Len(t, cfg.CacheOptions(), 2)

	cfg.Dev = Dev{Enabled: true, Username: "dever"}
	assert.Len(t, cfg.ServiceOptions(nil), 4)
}
