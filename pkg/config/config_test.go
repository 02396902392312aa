package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("AGENTTOP_BIND_ADDR", "")
	t.Setenv("AGENTTOP_DATA_DIR", "/tmp/agenttop-test-data")
	t.Setenv("AGENTTOP_LOG", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4318", cfg.BindAddr)
	assert.Equal(t, "/tmp/agenttop-test-data", cfg.DataDir)
	assert.Equal(t, "agenttop=info", cfg.LogEnv)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("AGENTTOP_BIND_ADDR", "0.0.0.0:9999")
	t.Setenv("AGENTTOP_DATA_DIR", "/custom/data")
	t.Setenv("AGENTTOP_LOG", "agenttop=debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.BindAddr)
	assert.Equal(t, "/custom/data", cfg.DataDir)
	assert.Equal(t, "agenttop=debug", cfg.LogEnv)
}

func TestLoadFromEnvResolvesDataDirWhenUnset(t *testing.T) {
	t.Setenv("AGENTTOP_DATA_DIR", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DataDir)
}
