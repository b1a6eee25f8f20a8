package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
tile_size = 64
workers = 2
parallel = false
log_level = "debug"
jpeg_quality = 80
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.TileSize)
	assert.Equal(t, 2, cfg.Workers)
	assert.False(t, cfg.Parallel)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 80, cfg.JPEGQuality)
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := writeConfig(t, `tile_size = 200`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.TileSize)
	assert.Equal(t, Default().Parallel, cfg.Parallel)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"tile size zero", `tile_size = 0`},
		{"negative workers", `workers = -1`},
		{"bad log level", `log_level = "loud"`},
		{"quality too high", `jpeg_quality = 101`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
