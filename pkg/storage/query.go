package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agenttop/agenttop/pkg/provider"
)

// GetToolMetrics aggregates tool_events and tool_result-suffixed log_events
// into one row per tool, most-called first.
func (e *Engine) GetToolMetrics(ctx context.Context, since *time.Time) ([]ToolMetrics, error) {
	clause, args := sinceFilter(since, 2)
	query := fmt.Sprintf(`
		WITH events AS (
			SELECT tool_name, duration_ms, success, NULL AS decision, timestamp
			FROM tool_events
			WHERE %s
			UNION ALL
			SELECT
				COALESCE(json_extract(attributes, '$.tool_name'), 'unknown'),
				CAST(COALESCE(json_extract(attributes, '$.duration_ms'), 0) AS INTEGER),
				CASE WHEN json_extract(attributes, '$.success') IN ('true', '1') THEN 1 ELSE 0 END,
				json_extract(attributes, '$.decision'),
				timestamp
			FROM log_events
			WHERE event_name LIKE '%%tool_result' AND %s
		)
		SELECT
			tool_name,
			COUNT(*) AS call_count,
			MAX(timestamp) AS last_call,
			AVG(duration_ms) AS avg_duration_ms,
			MIN(duration_ms) AS min_duration_ms,
			MAX(duration_ms) AS max_duration_ms,
			SUM(success) AS success_count,
			SUM(1 - success) AS error_count,
			SUM(CASE WHEN decision IN ('approved', 'auto_approved') THEN 1 ELSE 0 END) AS approved_count,
			SUM(CASE WHEN decision = 'rejected' THEN 1 ELSE 0 END) AS rejected_count
		FROM events
		GROUP BY tool_name
		ORDER BY call_count DESC
	`, clause, clause)

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tool metrics: %w", err)
	}
	defer rows.Close()

	var out []ToolMetrics
	for rows.Next() {
		var m ToolMetrics
		var lastCall sql.NullString
		if err := rows.Scan(
			&m.ToolName, &m.CallCount, &lastCall, &m.AvgDurationMs,
			&m.MinDurationMs, &m.MaxDurationMs, &m.SuccessCount, &m.ErrorCount,
			&m.ApprovedCount, &m.RejectedCount,
		); err != nil {
			return nil, fmt.Errorf("scanning tool metrics row: %w", err)
		}
		if lastCall.Valid {
			if t, ok := parseStoredTimestamp(lastCall.String); ok {
				m.LastCall = &t
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTokenMetrics sums token_usage.count per raw token_type, bucketing each
// raw spelling into its canonical field via the provider registry, and adds
// total spend from cost_usage.
func (e *Engine) GetTokenMetrics(ctx context.Context, since *time.Time) (TokenMetrics, error) {
	clause, args := sinceFilter(since, 1)
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT token_type, SUM(count) FROM token_usage WHERE %s GROUP BY token_type`, clause,
	), args...)
	if err != nil {
		return TokenMetrics{}, fmt.Errorf("querying token usage: %w", err)
	}
	defer rows.Close()

	var m TokenMetrics
	for rows.Next() {
		var tokenType string
		var sum int64
		if err := rows.Scan(&tokenType, &sum); err != nil {
			return TokenMetrics{}, fmt.Errorf("scanning token usage row: %w", err)
		}
		switch provider.DefaultRegistry.NormalizeTokenType(tokenType) {
		case provider.TokenInput:
			m.InputTokens += sum
		case provider.TokenOutput:
			m.OutputTokens += sum
		case provider.TokenCacheRead:
			m.CacheReadTokens += sum
		case provider.TokenCacheWrite:
			m.CacheCreationTokens += sum
		}
	}
	if err := rows.Err(); err != nil {
		return TokenMetrics{}, err
	}

	costClause, costArgs := sinceFilter(since, 1)
	row := e.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COALESCE(SUM(cost_usd), 0) FROM cost_usage WHERE %s`, costClause,
	), costArgs...)
	if err := row.Scan(&m.TotalCostUSD); err != nil {
		return TokenMetrics{}, fmt.Errorf("querying total cost: %w", err)
	}
	return m, nil
}

// GetSessionMetrics sums session_metrics.value per metric_name, mapping
// known spellings onto the three tracked fields and ignoring the rest.
func (e *Engine) GetSessionMetrics(ctx context.Context, since *time.Time) (SessionMetrics, error) {
	clause, args := sinceFilter(since, 1)
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT metric_name, SUM(value) FROM session_metrics WHERE %s GROUP BY metric_name`, clause,
	), args...)
	if err != nil {
		return SessionMetrics{}, fmt.Errorf("querying session metrics: %w", err)
	}
	defer rows.Close()

	var m SessionMetrics
	for rows.Next() {
		var name string
		var sum int64
		if err := rows.Scan(&name, &sum); err != nil {
			return SessionMetrics{}, fmt.Errorf("scanning session metrics row: %w", err)
		}
		switch name {
		case "lines_of_code", "loc":
			m.LinesOfCode += sum
		case "commits", "commit_count":
			m.CommitCount += sum
		case "active_time":
			m.ActiveTimeSecs += sum
		}
	}
	return m, rows.Err()
}

// GetApiMetrics aggregates api_request/api_error-suffixed log_events,
// grouped by the model attribute.
func (e *Engine) GetApiMetrics(ctx context.Context, since *time.Time) (ApiMetrics, error) {
	clause, args := sinceFilter(since, 1)
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			COALESCE(json_extract(attributes, '$.model'), 'unknown') AS model,
			COUNT(*) AS cnt,
			AVG(CAST(COALESCE(
				json_extract(attributes, '$.latency_ms'),
				json_extract(attributes, '$.duration_ms'),
				0
			) AS REAL)) AS avg_latency
		FROM log_events
		WHERE event_name LIKE '%%api_request' AND %s
		GROUP BY model
	`, clause), args...)
	if err != nil {
		return ApiMetrics{}, fmt.Errorf("querying api metrics: %w", err)
	}
	defer rows.Close()

	m := ApiMetrics{Models: map[string]int64{}}
	var weightedLatency float64
	for rows.Next() {
		var model string
		var count int64
		var avgLatency float64
		if err := rows.Scan(&model, &count, &avgLatency); err != nil {
			return ApiMetrics{}, fmt.Errorf("scanning api metrics row: %w", err)
		}
		m.Models[model] = count
		m.TotalCalls += count
		weightedLatency += avgLatency * float64(count)
	}
	if err := rows.Err(); err != nil {
		return ApiMetrics{}, err
	}
	if m.TotalCalls > 0 {
		m.AvgLatencyMs = weightedLatency / float64(m.TotalCalls)
	}

	errClause, errArgs := sinceFilter(since, 1)
	row := e.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM log_events WHERE event_name LIKE '%%api_error' AND %s`, errClause,
	), errArgs...)
	if err := row.Scan(&m.TotalErrors); err != nil {
		return ApiMetrics{}, fmt.Errorf("querying api error count: %w", err)
	}
	return m, nil
}

// GetLastToolError returns the most recent non-success error recorded for
// toolName across both tool_events and log_events, or "" if none exists.
func (e *Engine) GetLastToolError(ctx context.Context, toolName string) (string, error) {
	row := e.db.QueryRowContext(ctx, `
		WITH events AS (
			SELECT tool_name, success, error, timestamp
			FROM tool_events
			WHERE tool_name = ?
			UNION ALL
			SELECT
				COALESCE(json_extract(attributes, '$.tool_name'), 'unknown'),
				CASE WHEN json_extract(attributes, '$.success') IN ('true', '1') THEN 1 ELSE 0 END,
				json_extract(attributes, '$.error'),
				timestamp
			FROM log_events
			WHERE event_name LIKE '%tool_result' AND json_extract(attributes, '$.tool_name') = ?
		)
		SELECT error FROM events WHERE success = 0 AND error IS NOT NULL
		ORDER BY timestamp DESC LIMIT 1
	`, toolName, toolName)

	var errText sql.NullString
	if err := row.Scan(&errText); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("querying last tool error: %w", err)
	}
	if !errText.Valid {
		return "", nil
	}
	return errText.String, nil
}
