package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "/feeds", cfg.Server.BasePath)
	assert.Equal(t, "Added by app", cfg.Authors.PlaceholderName)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
base_path = "/v2/feeds"
alias_paths = []
allow_origins = ["https://example.com"]

[authors]
placeholder_name = "Staff"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/v2/feeds", cfg.Server.BasePath)
	assert.Empty(t, cfg.Server.AliasPaths)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "Staff", cfg.Authors.PlaceholderName)
	// Unset keys keep their defaults
	assert.Equal(t, Default().Authors.PlaceholderImage, cfg.Authors.PlaceholderImage)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "error reading config file")

	_, err = LoadConfig(writeConfig(t, "[server\nbase_path ="))
	assert.ErrorContains(t, err, "error parsing config file")

	_, err = LoadConfig(writeConfig(t, "[server]\nbase_path = \"\"\n"))
	assert.ErrorContains(t, err, "base_path")
}
