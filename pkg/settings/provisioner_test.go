package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureJSONCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	changed, err := EnsureJSON(path, func() map[string]any {
		return map[string]any{"env": map[string]any{"FOO": "1"}}
	}, map[string]any{"env": map[string]any{"FOO": "1"}}, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	env := doc["env"].(map[string]any)
	assert.Equal(t, "1", env["FOO"])
}

func TestEnsureJSONPreservesUnrelatedKeysAndBacksUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"unrelated":"keep-me","env":{"OTHER":"x"}}`), 0o644))

	changed, err := EnsureJSON(path, nil, map[string]any{"env": map[string]any{"FOO": "1"}}, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "keep-me", doc["unrelated"])
	env := doc["env"].(map[string]any)
	assert.Equal(t, "1", env["FOO"])
	assert.Equal(t, "x", env["OTHER"])

	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestEnsureJSONRemovesLegacyKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"telemetry":"old","env":{"FOO":"1"}}`), 0o644))

	changed, err := EnsureJSON(path, nil, map[string]any{"env": map[string]any{"FOO": "1"}}, []string{"telemetry"})
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	_, has := doc["telemetry"]
	assert.False(t, has)
}

func TestEnsureJSONNoopWhenAlreadyCorrect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"env":{"FOO":"1"}}`), 0o644))

	changed, err := EnsureJSON(path, nil, map[string]any{"env": map[string]any{"FOO": "1"}}, nil)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}
