// Package util provides test helpers shared across agenttop's package tests.
package util

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenttop/agenttop/pkg/storage"
)

// NewTestEngine opens a fresh, isolated sqlite-backed storage engine for a
// single test. Each test gets its own temp-file database rather than an
// in-memory one so multiple connections (if the caller opens more than one)
// observe the same data, and registers cleanup to close it.
func NewTestEngine(t *testing.T) *storage.Engine {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "metrics.db")
	engine, err := storage.NewEngine(context.Background(), storage.Config{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = engine.Close()
	})
	return engine
}

// NewTestHandle spawns the storage actor over a fresh test engine and
// registers cleanup to shut it down.
func NewTestHandle(t *testing.T) *storage.Handle {
	t.Helper()

	handle := storage.Spawn(NewTestEngine(t))
	t.Cleanup(handle.Shutdown)
	return handle
}
