package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Tx.WPM)
	assert.Nil(t, cfg.Koch.GroupCount)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[tx]
wpm = 25
freq = 650

[koch]
group-count = 8

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Tx.WPM)
	assert.Equal(t, 25, *cfg.Tx.WPM)
	assert.Equal(t, 650, *cfg.Tx.Freq)
	assert.Nil(t, cfg.Tx.Eff)
	require.NotNil(t, cfg.Koch.GroupCount)
	assert.Equal(t, 8, *cfg.Koch.GroupCount)
	require.NotNil(t, cfg.Log.Level)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, filepath.Join("/tmp/cfg", "cwterm", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "cwterm", "cwterm.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/tmp/data", "cwterm", "cwterm.log"), DefaultLogPath())
}
