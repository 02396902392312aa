package storage

// schemaStatements are executed in order against a fresh or existing
// database file. Every statement is idempotent so NewEngine can run them on
// every startup without a separate migration framework.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tool_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		tool_name TEXT NOT NULL,
		success INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		error TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tool_events_timestamp ON tool_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_tool_events_tool_name ON tool_events(tool_name)`,

	`CREATE TABLE IF NOT EXISTS log_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		event_name TEXT,
		body TEXT,
		attributes TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_log_events_timestamp ON log_events(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_log_events_event_name ON log_events(event_name)`,

	`CREATE TABLE IF NOT EXISTS token_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		token_type TEXT NOT NULL,
		count INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_token_usage_timestamp ON token_usage(timestamp)`,

	`CREATE TABLE IF NOT EXISTS cost_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		cost_usd REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cost_usage_timestamp ON cost_usage(timestamp)`,

	`CREATE TABLE IF NOT EXISTS session_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		value INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_metrics_timestamp ON session_metrics(timestamp)`,
}
