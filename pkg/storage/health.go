package storage

import (
	"context"
	"time"
)

// HealthStatus reports database connectivity and connection pool stats.
type HealthStatus struct {
	Status          string
	ResponseTime    time.Duration
	OpenConnections int
	InUse           int
	Idle            int
}

// Health pings the database and reports its pool statistics. Used at
// startup to confirm the file opened cleanly before the actor takes over.
func (e *Engine) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	if err := e.db.PingContext(ctx); err != nil {
		return &HealthStatus{Status: "unhealthy", ResponseTime: time.Since(start)}, err
	}
	stats := e.db.Stats()
	return &HealthStatus{
		Status:          "healthy",
		ResponseTime:    time.Since(start),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	}, nil
}
