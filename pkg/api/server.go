// Package api provides the HTTP receiver that accepts OTLP telemetry from
// AI coding-assistant CLIs.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenttop/agenttop/pkg/otlp"
	"github.com/agenttop/agenttop/pkg/provider"
	"github.com/agenttop/agenttop/pkg/storage"
)

// DefaultBindAddr is where the receiver listens absent an override.
const DefaultBindAddr = "127.0.0.1:4318"

// Server is the OTLP HTTP receiver.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	storage    *storage.Handle
	registry   *provider.Registry
}

// NewServer builds a receiver that records decoded telemetry onto handle,
// using reg to recognize each metric's provider prefix.
func NewServer(handle *storage.Handle, reg *provider.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())

	s := &Server{
		engine:   e,
		storage:  handle,
		registry: reg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.Use(corsPermissive())
	s.engine.Use(securityHeaders())

	v1 := s.engine.Group("/v1")
	v1.POST("/metrics", s.metricsHandler)
	v1.POST("/logs", s.logsHandler)
	v1.POST("/traces", s.tracesHandler)
}

// Start serves the receiver on addr, blocking until Shutdown or a fatal
// listener error.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}
	slog.Info("otlp receiver listening", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// StartWithListener serves the receiver on a pre-created listener, used by
// tests that need a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.engine}
	err := s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		slog.Warn("otlp receiver: reading request body failed", "error", err)
		return nil, false
	}
	return body, true
}

func (s *Server) metricsHandler(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	metrics := otlp.ParseMetrics(body, s.registry)
	recordMetrics(s.storage, metrics)
	c.Status(http.StatusOK)
}

func (s *Server) logsHandler(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	events := otlp.ParseLogs(body)
	if len(events) > 0 {
		s.storage.RecordLogEvents(events)
	}
	c.Status(http.StatusOK)
}

// tracesHandler accepts and discards: agenttop has no use for span data.
func (s *Server) tracesHandler(c *gin.Context) {
	_, _ = c.GetRawData()
	c.Status(http.StatusOK)
}

// recordMetrics issues the matching storage command for each decoded metric.
func recordMetrics(h *storage.Handle, metrics []otlp.ParsedMetric) {
	for _, m := range metrics {
		switch m.Kind {
		case otlp.MetricTokenUsage:
			h.RecordTokenUsage(m.TokenType, m.Count)
		case otlp.MetricCostUsage:
			h.RecordCost(m.CostUSD)
		case otlp.MetricSessionMetric:
			h.RecordSessionMetric(m.Name, m.Value)
		}
	}
}
