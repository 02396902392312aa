package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineHealth(t *testing.T) {
	e, err := NewEngine(context.Background(), Config{Path: ":memory:"})
	require.NoError(t, err)
	defer e.Close()

	status, err := e.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
}
