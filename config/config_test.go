package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Scraper.MaxPages)
	assert.True(t, cfg.Scraper.Incremental)
	assert.Equal(t, 0.5, cfg.Scraper.RequestsPerSecond)
	assert.Equal(t, 0.30, cfg.Validation.DropThreshold)
	assert.Equal(t, 5, cfg.Backup.Retention)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.Equal(t, filepath.Join("./data", "competitor_prices.json"), cfg.Store.DataFile())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
scraper:
  max_pages: 2
validation:
  drop_threshold: 0.5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Scraper.MaxPages)
	assert.Equal(t, 0.5, cfg.Validation.DropThreshold)
	// Unset keys keep their defaults.
	assert.Equal(t, 5, cfg.Backup.Retention)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
