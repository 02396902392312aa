// Package config loads agenttop's small set of environment-driven settings:
// the receiver bind address, the data directory, and the log filter.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

// Config holds agenttop's process-wide settings.
type Config struct {
	BindAddr string // OTLP receiver listen address, e.g. "127.0.0.1:4318"
	DataDir  string // base directory for the database file and log file
	LogEnv   string // RUST_LOG-style filter, e.g. "agenttop=info"
}

// AppName names the on-disk subdirectory used under the data directory and
// the default log filter's target.
const AppName = "agenttop"

// LoadFromEnv reads configuration from the environment, first loading a
// .env file from the working directory if one is present (missing files are
// not an error; agenttop has no required on-disk config).
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	dataDir := os.Getenv("AGENTTOP_DATA_DIR")
	if dataDir == "" {
		resolved, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = resolved
	}

	return &Config{
		BindAddr: getEnvOrDefault("AGENTTOP_BIND_ADDR", "127.0.0.1:4318"),
		DataDir:  dataDir,
		LogEnv:   getEnvOrDefault("AGENTTOP_LOG", AppName+"=info"),
	}, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// defaultDataDir resolves the OS-conventional per-user data directory, the
// nearest Go stdlib equivalent of the original's dirs::data_dir(): XDG on
// Linux, Application Support on macOS, %AppData% on Windows.
func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", ErrHomeDirUnavailable)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if appData := os.Getenv("AppData"); appData != "" {
			return appData, nil
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return xdg, nil
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}
