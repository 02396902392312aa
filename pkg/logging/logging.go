// Package logging builds agenttop's single process-wide slog.Logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Setup builds the logger for one process run. In headless mode, logs go to
// stderr; otherwise (TUI mode) they go to a file under dataDir, since the
// TUI owns the terminal and cannot share it with interleaved log lines.
// logEnv is a RUST_LOG-style filter, e.g. "agenttop=info" or "agenttop=debug";
// only the level after the last "=" is honored.
func Setup(logEnv string, dataDir string, headless bool) (*slog.Logger, func() error, error) {
	level := parseLevel(logEnv)

	var out io.Writer = os.Stderr
	closer := func() error { return nil }

	if !headless {
		logDir := filepath.Join(dataDir, "agenttop")
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(logDir, "agenttop.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// parseLevel reads the level out of a RUST_LOG-style filter string. Anything
// unrecognized falls back to info, matching the original's default.
func parseLevel(logEnv string) slog.Level {
	spec := logEnv
	if idx := strings.LastIndex(logEnv, "="); idx != -1 {
		spec = logEnv[idx+1:]
	}
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
