package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenttop/agenttop/pkg/otlp"
)

func newTestHandle(t *testing.T) *Handle {
	t.Helper()
	e, err := NewEngine(context.Background(), Config{Path: ":memory:"})
	require.NoError(t, err)
	h := Spawn(e)
	t.Cleanup(func() {
		h.Shutdown()
		_ = e.Close()
	})
	return h
}

func TestHandleRecordAndQueryToolMetrics(t *testing.T) {
	h := newTestHandle(t)

	h.RecordToolEvent(ToolEvent{ToolName: "Bash", Success: true, DurationMs: 50})
	h.RecordToolEvent(ToolEvent{ToolName: "Bash", Success: false, DurationMs: 75, Error: "boom"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.Eventually(t, func() bool {
		metrics, err := h.GetToolMetrics(ctx, nil)
		return err == nil && len(metrics) == 1 && metrics[0].CallCount == 2
	}, time.Second, 5*time.Millisecond)

	metrics, err := h.GetToolMetrics(ctx, nil)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "Bash", metrics[0].ToolName)
	assert.Equal(t, int64(1), metrics[0].SuccessCount)
	assert.Equal(t, int64(1), metrics[0].ErrorCount)

	lastErr, err := h.GetLastToolError(ctx, "Bash")
	require.NoError(t, err)
	assert.Equal(t, "boom", lastErr)
}

func TestHandleRecordTokenUsageAndCost(t *testing.T) {
	h := newTestHandle(t)

	h.RecordTokenUsage("input_tokens", 100)
	h.RecordTokenUsage("cacheRead", 40)
	h.RecordCost(1.25)

	ctx := context.Background()
	require.Eventually(t, func() bool {
		m, err := h.GetTokenMetrics(ctx, nil)
		return err == nil && m.InputTokens == 100 && m.CacheReadTokens == 40
	}, time.Second, 5*time.Millisecond)

	m, err := h.GetTokenMetrics(ctx, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, m.TotalCostUSD, 0.0001)
	assert.InDelta(t, 28.57, m.CacheReuseRate(), 0.1)
}

func TestHandleRecordLogEvents(t *testing.T) {
	h := newTestHandle(t)

	h.RecordLogEvents([]otlp.LogEvent{
		{
			Timestamp: time.Now().UTC(),
			EventName: "claude_code.tool_result",
			Attributes: map[string]string{
				"tool_name":   "Grep",
				"success":     "true",
				"duration_ms": "12",
			},
		},
	})

	ctx := context.Background()
	require.Eventually(t, func() bool {
		metrics, err := h.GetToolMetrics(ctx, nil)
		return err == nil && len(metrics) == 1 && metrics[0].ToolName == "Grep"
	}, time.Second, 5*time.Millisecond)
}

// Actor serialization: an interleaving of writes followed by a read observes
// every write submitted before the read was enqueued, regardless of which
// goroutine submitted each command.
func TestHandleActorSerializesSubmissionOrder(t *testing.T) {
	h := newTestHandle(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			h.RecordToolEvent(ToolEvent{ToolName: "Edit", Success: true, DurationMs: int64(n)})
		}(i)
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	metrics, err := h.GetToolMetrics(ctx, nil)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, int64(20), metrics[0].CallCount)
}

func TestHandleZeroInputSafety(t *testing.T) {
	h := newTestHandle(t)

	ctx := context.Background()
	toolMetrics, err := h.GetToolMetrics(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, toolMetrics)

	tokenMetrics, err := h.GetTokenMetrics(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ToolMetrics{}.ApprovalRate())
	assert.Equal(t, 0.0, tokenMetrics.CacheReuseRate())

	sessionMetrics, err := h.GetSessionMetrics(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, sessionMetrics.LinesOfCode)

	apiMetrics, err := h.GetApiMetrics(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, apiMetrics.TotalCalls)

	lastErr, err := h.GetLastToolError(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, lastErr)
}

func TestHandleShutdownDropsLateWrites(t *testing.T) {
	e, err := NewEngine(context.Background(), Config{Path: ":memory:"})
	require.NoError(t, err)
	defer e.Close()

	h := Spawn(e)
	h.Shutdown()

	// Writes after shutdown are silently dropped, never panic.
	h.RecordToolEvent(ToolEvent{ToolName: "Bash", Success: true})

	_, err = h.GetToolMetrics(context.Background(), nil)
	assert.ErrorIs(t, err, ErrActorClosed)
}

func TestUnboundedQueueFIFOOrder(t *testing.T) {
	q := newUnboundedQueue()
	var order []int
	var mu sync.Mutex

	for i := 0; i < 5; i++ {
		n := i
		q.push(func(e *Engine) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		})
	}

	e := &Engine{}
	for i := 0; i < 5; i++ {
		j, ok := q.pop()
		require.True(t, ok)
		j(e)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestUnboundedQueueCloseDrainsThenStops(t *testing.T) {
	q := newUnboundedQueue()
	q.push(func(e *Engine) {})
	q.closeQueue()

	_, ok := q.pop()
	assert.True(t, ok, "queued job before close should still be delivered")

	_, ok = q.pop()
	assert.False(t, ok, "pop after drain and close should report done")

	assert.False(t, q.push(func(e *Engine) {}), "push after close should be rejected")
}
