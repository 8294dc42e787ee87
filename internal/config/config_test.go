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
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /var/lib/scorebrawl.db
http:
  addr: ":9090"
log:
  level: debug
session:
  lifetime: 1h
rate_limit:
  rps: 5
  burst: 20
`), 0o600))

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DISCORD_KEY", "discord-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/scorebrawl.db", cfg.Database.Path)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, "discord-key", cfg.Discord.Key)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "lots")

	_, err := Load("")
	assert.ErrorContains(t, err, "RATE_LIMIT_BURST")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
