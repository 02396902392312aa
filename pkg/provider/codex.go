package provider

import (
	"os"
	"path/filepath"
	"strings"
)

// codexProvider grounds OpenAI Codex CLI's telemetry. Its id ("openai_codex")
// and metric prefix ("codex") differ, which matters for DetectFromMetric.
// Codex has no JSON settings file worth writing to: its OTLP export is
// configured via a TOML file the CLI itself owns, so EnsureConfigured is a
// deliberate no-op and the operator is pointed at the config file to edit by
// hand instead.
type codexProvider struct{}

var codexBuiltinTools = []string{
	"shell", "read_file", "write_file", "edit_file", "search",
	"list_files", "run_command", "apply_patch",
}

func (codexProvider) ID() string             { return "openai_codex" }
func (codexProvider) Name() string           { return "OpenAI Codex" }
func (codexProvider) MetricPrefix() string   { return "codex" }
func (codexProvider) BuiltinTools() []string { return codexBuiltinTools }

func (codexProvider) ShortenModelName(modelName string) (string, bool) {
	lower := strings.ToLower(modelName)
	switch {
	case strings.HasPrefix(lower, "gpt-4o"):
		return "gpt-4o", true
	case strings.HasPrefix(lower, "gpt-4-turbo"):
		return "gpt-4-turbo", true
	case strings.HasPrefix(lower, "gpt-4"):
		return "gpt-4", true
	case strings.HasPrefix(lower, "gpt-3.5"), strings.HasPrefix(lower, "gpt-3"):
		return "gpt-3.5", true
	case lower == "o1-preview":
		return "o1-preview", true
	case lower == "o1-mini":
		return "o1-mini", true
	case lower == "o1":
		return "o1", true
	case lower == "o3-mini":
		return "o3-mini", true
	case lower == "o3":
		return "o3", true
	default:
		return "", false
	}
}

func (codexProvider) NormalizeTokenType(rawTag string) string {
	switch rawTag {
	case "prompt_tokens":
		return TokenInput
	case "completion_tokens":
		return TokenOutput
	default:
		return ""
	}
}

func (codexProvider) SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".codex", "config.toml"), nil
}

// EnsureConfigured never writes: Codex's config is TOML and agenttop does
// not carry a TOML writer for one file. `agenttop setup codex` prints the
// path of that file for manual editing; it prints no configuration snippet.
func (codexProvider) EnsureConfigured() (bool, error) {
	return false, nil
}
