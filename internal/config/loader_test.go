package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Advanced.Cache.MaxSize)
	assert.Equal(t, 300*time.Second, cfg.Advanced.Cache.DefaultTTL)
	assert.Equal(t, HistoricalSourceRESTAPI, cfg.Historical.Source)
	assert.True(t, cfg.Features.EventConsole)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
checkmk:
  server_url: https://cmk.example.com/check_mk/api/1.0
  username: automation
  password: hunter2
advanced:
  cache:
    max_size: 50
historical:
  source: scraper
features:
  business_intelligence: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "automation", cfg.Checkmk.Username)
	assert.Equal(t, 50, cfg.Advanced.Cache.MaxSize)
	// The scraper source is accepted without erroring even though this
	// build only reads history through the REST API.
	assert.Equal(t, HistoricalSourceScraper, cfg.Historical.Source)
	assert.False(t, cfg.Features.BusinessIntelligence)
}

func TestLoad_EnvOverridesPassword(t *testing.T) {
	t.Setenv(EnvPasswordVar, "from-env")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Checkmk.Password)
}

func TestLoad_MalformedYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checkmk: ["), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
