package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agenttop/agenttop/pkg/otlp"
)

const timestampLayout = time.RFC3339Nano

// Config points the engine at its database file.
type Config struct {
	Path string
}

// DBPath returns the default database file location under a user data
// directory, e.g. "<dataDir>/agenttop/metrics.db".
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "agenttop", "metrics.db")
}

// Engine owns the SQLite database file: schema, inserts, and aggregation
// queries. It is not safe for concurrent writers beyond what SQLite itself
// serializes; the storage actor started by Spawn is the sole intended caller
// for anything beyond tests.
type Engine struct {
	db *sql.DB
}

// NewEngine opens (and creates, with its parent directory, if absent) the
// database file at cfg.Path and ensures its schema exists.
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single actor goroutine drives all writes; one connection keeps
	// SQLite's own locking out of the picture.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	e := &Engine{db: db}
	if err := e.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return e, nil
}

// DB returns the underlying handle for health checks.
func (e *Engine) DB() *sql.DB {
	return e.db
}

// Close releases the database file handle.
func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ToolEvent is one row for the legacy typed tool_events table.
type ToolEvent struct {
	ToolName   string
	Success    bool
	DurationMs int64
	Error      string // "" if absent
}

// InsertToolEvent records a typed tool invocation under the wall-clock time
// it was received.
func (e *Engine) InsertToolEvent(ctx context.Context, ev ToolEvent) error {
	var errVal any
	if ev.Error != "" {
		errVal = ev.Error
	}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO tool_events (timestamp, tool_name, success, duration_ms, error) VALUES (?, ?, ?, ?, ?)`,
		nowText(), ev.ToolName, boolToInt(ev.Success), ev.DurationMs, errVal,
	)
	return err
}

// InsertLogEvents inserts a whole batch of decoded log records in a single
// transaction, row by row, preserving each record's own payload timestamp.
func (e *Engine) InsertLogEvents(ctx context.Context, events []otlp.LogEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO log_events (timestamp, event_name, body, attributes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		attrsJSON, err := json.Marshal(ev.Attributes)
		if err != nil {
			return fmt.Errorf("marshaling log attributes: %w", err)
		}
		var eventName, body any
		if ev.EventName != "" {
			eventName = ev.EventName
		}
		if ev.Body != "" {
			body = ev.Body
		}
		if _, err := stmt.ExecContext(ctx, ev.Timestamp.Format(timestampLayout), eventName, body, string(attrsJSON)); err != nil {
			return fmt.Errorf("inserting log event: %w", err)
		}
	}
	return tx.Commit()
}

// InsertTokenUsage records a token usage sample under the wall-clock time it
// was received.
func (e *Engine) InsertTokenUsage(ctx context.Context, tokenType string, count uint64) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO token_usage (timestamp, token_type, count) VALUES (?, ?, ?)`,
		nowText(), tokenType, count,
	)
	return err
}

// InsertCost records a cost sample under the wall-clock time it was received.
func (e *Engine) InsertCost(ctx context.Context, costUSD float64) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO cost_usage (timestamp, cost_usd) VALUES (?, ?)`,
		nowText(), costUSD,
	)
	return err
}

// InsertSessionMetric records a session-level sample under the wall-clock
// time it was received.
func (e *Engine) InsertSessionMetric(ctx context.Context, name string, value int64) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO session_metrics (timestamp, metric_name, value) VALUES (?, ?, ?)`,
		nowText(), name, value,
	)
	return err
}

func nowText() string {
	return time.Now().UTC().Format(timestampLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sinceFilter renders an optional lower-bound timestamp clause. count is how
// many times clause appears in the surrounding query text; args must be
// appended to the query's bind arguments that many times, in order, since
// database/sql binds one Go value per literal "?" occurrence.
func sinceFilter(since *time.Time, count int) (clause string, args []any) {
	if since == nil {
		return "1=1", nil
	}
	sinceText := since.UTC().Format(timestampLayout)
	args = make([]any, count)
	for i := range args {
		args[i] = sinceText
	}
	return "timestamp >= ?", args
}

// parseStoredTimestamp accepts both the RFC3339 text the engine itself
// writes and SQLite's own default "YYYY-MM-DD HH:MM:SS[.ffffff]" form, so
// that rows written by a differently configured reader still parse.
func parseStoredTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
