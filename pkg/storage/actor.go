package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/agenttop/agenttop/pkg/otlp"
)

// ErrActorClosed is returned by read commands submitted after Shutdown has
// been called.
var ErrActorClosed = errors.New("storage: actor queue is closed")

// Handle is a cheap-to-share reference to a running storage actor. Every
// method either enqueues a fire-and-forget write or enqueues a job and
// blocks for its reply; the actor itself processes the queue strictly
// sequentially, which is the only concurrency control over the database.
type Handle struct {
	queue    *unboundedQueue
	actorCtx context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// Spawn starts the actor goroutine owning e and returns a Handle to it. The
// actor runs until Shutdown is called.
func Spawn(e *Engine) *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		queue:    newUnboundedQueue(),
		actorCtx: ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.run(e)
	return h
}

func (h *Handle) run(e *Engine) {
	defer close(h.done)
	for {
		j, ok := h.queue.pop()
		if !ok {
			return
		}
		j(e)
	}
}

// Shutdown drains the queue and joins the actor goroutine. Commands enqueued
// after Shutdown is called are dropped (writes silently, reads with
// ErrActorClosed).
func (h *Handle) Shutdown() {
	h.queue.closeQueue()
	<-h.done
	h.cancel()
}

func (h *Handle) enqueueWrite(j job) {
	if !h.queue.push(j) {
		slog.Warn("storage: dropped write, actor queue is closed")
	}
}

// RecordToolEvent enqueues a fire-and-forget typed tool event insert.
func (h *Handle) RecordToolEvent(ev ToolEvent) {
	h.enqueueWrite(func(e *Engine) {
		if err := e.InsertToolEvent(h.actorCtx, ev); err != nil {
			slog.Error("storage: inserting tool event failed", "error", err)
		}
	})
}

// RecordLogEvents enqueues a fire-and-forget batch insert of decoded log
// records. Callers should submit a whole OTLP request's logs as one call.
func (h *Handle) RecordLogEvents(events []otlp.LogEvent) {
	h.enqueueWrite(func(e *Engine) {
		if err := e.InsertLogEvents(h.actorCtx, events); err != nil {
			slog.Error("storage: inserting log events failed", "error", err)
		}
	})
}

// RecordTokenUsage enqueues a fire-and-forget token usage insert.
func (h *Handle) RecordTokenUsage(tokenType string, count uint64) {
	h.enqueueWrite(func(e *Engine) {
		if err := e.InsertTokenUsage(h.actorCtx, tokenType, count); err != nil {
			slog.Error("storage: inserting token usage failed", "error", err)
		}
	})
}

// RecordCost enqueues a fire-and-forget cost insert.
func (h *Handle) RecordCost(costUSD float64) {
	h.enqueueWrite(func(e *Engine) {
		if err := e.InsertCost(h.actorCtx, costUSD); err != nil {
			slog.Error("storage: inserting cost failed", "error", err)
		}
	})
}

// RecordSessionMetric enqueues a fire-and-forget session metric insert.
func (h *Handle) RecordSessionMetric(name string, value int64) {
	h.enqueueWrite(func(e *Engine) {
		if err := e.InsertSessionMetric(h.actorCtx, name, value); err != nil {
			slog.Error("storage: inserting session metric failed", "error", err)
		}
	})
}

type result[T any] struct {
	val T
	err error
}

// submitRead enqueues a job that computes its result via fn and waits for
// it, respecting ctx cancellation while waiting in the queue.
func submitRead[T any](ctx context.Context, h *Handle, fn func(ctx context.Context, e *Engine) (T, error)) (T, error) {
	replies := make(chan result[T], 1)
	ok := h.queue.push(func(e *Engine) {
		val, err := fn(h.actorCtx, e)
		replies <- result[T]{val: val, err: err}
	})
	if !ok {
		var zero T
		return zero, ErrActorClosed
	}
	select {
	case r := <-replies:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// GetToolMetrics requests a snapshot of per-tool aggregates since the given
// instant (nil means all-time).
func (h *Handle) GetToolMetrics(ctx context.Context, since *time.Time) ([]ToolMetrics, error) {
	return submitRead(ctx, h, func(ctx context.Context, e *Engine) ([]ToolMetrics, error) {
		return e.GetToolMetrics(ctx, since)
	})
}

// GetTokenMetrics requests a snapshot of token/cost aggregates.
func (h *Handle) GetTokenMetrics(ctx context.Context, since *time.Time) (TokenMetrics, error) {
	return submitRead(ctx, h, func(ctx context.Context, e *Engine) (TokenMetrics, error) {
		return e.GetTokenMetrics(ctx, since)
	})
}

// GetSessionMetrics requests a snapshot of session productivity aggregates.
func (h *Handle) GetSessionMetrics(ctx context.Context, since *time.Time) (SessionMetrics, error) {
	return submitRead(ctx, h, func(ctx context.Context, e *Engine) (SessionMetrics, error) {
		return e.GetSessionMetrics(ctx, since)
	})
}

// GetApiMetrics requests a snapshot of upstream API call aggregates.
func (h *Handle) GetApiMetrics(ctx context.Context, since *time.Time) (ApiMetrics, error) {
	return submitRead(ctx, h, func(ctx context.Context, e *Engine) (ApiMetrics, error) {
		return e.GetApiMetrics(ctx, since)
	})
}

// GetLastToolError requests the most recent error recorded for toolName.
func (h *Handle) GetLastToolError(ctx context.Context, toolName string) (string, error) {
	return submitRead(ctx, h, func(ctx context.Context, e *Engine) (string, error) {
		return e.GetLastToolError(ctx, toolName)
	})
}
