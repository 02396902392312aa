package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLevel("agenttop=info"))
	assert.Equal(t, slog.LevelDebug, parseLevel("agenttop=debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("agenttop=warn"))
	assert.Equal(t, slog.LevelError, parseLevel("agenttop=error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestSetupHeadlessWritesToStderr(t *testing.T) {
	logger, closer, err := Setup("agenttop=info", t.TempDir(), true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closer())
}

func TestSetupTUIModeWritesToFile(t *testing.T) {
	dataDir := t.TempDir()
	logger, closer, err := Setup("agenttop=info", dataDir, false)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer())

	_, err = os.Stat(filepath.Join(dataDir, "agenttop", "agenttop.log"))
	assert.NoError(t, err)
}
