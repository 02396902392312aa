// Package storage owns the embedded SQLite database that backs agenttop's
// metrics: schema, inserts, aggregation queries, and the single-writer actor
// that serializes access to the database handle.
package storage

import "time"

// ToolMetrics is a per-tool aggregate over a time window.
type ToolMetrics struct {
	ToolName      string
	CallCount     int64
	LastCall      *time.Time
	AvgDurationMs float64
	MinDurationMs int64
	MaxDurationMs int64
	SuccessCount  int64
	ErrorCount    int64
	ApprovedCount int64
	RejectedCount int64
}

// ApprovalRate is 100% when no decision was ever recorded, otherwise the
// share of approved-or-auto-approved decisions among decided calls.
func (m ToolMetrics) ApprovalRate() float64 {
	total := m.ApprovedCount + m.RejectedCount
	if total == 0 {
		return 100.0
	}
	return float64(m.ApprovedCount) / float64(total) * 100.0
}

// OverallSuccessRate is 100% when the tool was never called.
func (m ToolMetrics) OverallSuccessRate() float64 {
	if m.CallCount == 0 {
		return 100.0
	}
	return float64(m.SuccessCount) / float64(m.CallCount) * 100.0
}

// TokenMetrics is a window aggregate of token consumption and spend.
type TokenMetrics struct {
	InputTokens         int64
	OutputTokens        int64
	CacheReadTokens     int64
	CacheCreationTokens int64
	TotalCostUSD        float64
}

// CacheReuseRate is 0% when there is nothing to reuse against.
func (m TokenMetrics) CacheReuseRate() float64 {
	denom := m.InputTokens + m.CacheReadTokens
	if denom == 0 {
		return 0.0
	}
	return float64(m.CacheReadTokens) / float64(denom) * 100.0
}

// SessionMetrics is a window aggregate of session-level productivity signals.
type SessionMetrics struct {
	LinesOfCode    int64
	CommitCount    int64
	ActiveTimeSecs int64
}

// ApiMetrics is a window aggregate of upstream model API call volume/latency.
type ApiMetrics struct {
	TotalCalls   int64
	TotalErrors  int64
	AvgLatencyMs float64
	Models       map[string]int64
}
