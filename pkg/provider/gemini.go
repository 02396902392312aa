package provider

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agenttop/agenttop/pkg/settings"
)

// geminiProvider grounds Gemini CLI's telemetry: metric prefix "gemini_cli"
// and a top-level "telemetry" settings block (distinct shape from Claude's
// env-var block).
type geminiProvider struct{}

var geminiBuiltinTools = []string{
	"read_file", "write_file", "edit_file", "run_shell_command",
	"search_files", "list_directory", "find_files", "glob_files",
	"web_search", "memory_tool",
}

func (geminiProvider) ID() string             { return "gemini_cli" }
func (geminiProvider) Name() string           { return "Gemini CLI" }
func (geminiProvider) MetricPrefix() string   { return "gemini_cli" }
func (geminiProvider) BuiltinTools() []string { return geminiBuiltinTools }

func (geminiProvider) ShortenModelName(modelName string) (string, bool) {
	lower := strings.ToLower(modelName)
	switch {
	case strings.Contains(lower, "gemini-2.0"), strings.Contains(lower, "gemini-2-"):
		switch {
		case strings.Contains(lower, "flash"):
			return "gemini-2.0-flash", true
		case strings.Contains(lower, "pro"):
			return "gemini-2.0-pro", true
		default:
			return "gemini-2.0", true
		}
	case strings.Contains(lower, "gemini-2"):
		return "gemini-2", true
	case strings.Contains(lower, "gemini-1.5-pro"):
		return "gemini-1.5-pro", true
	case strings.Contains(lower, "gemini-1.5-flash"):
		return "gemini-1.5-flash", true
	case strings.Contains(lower, "gemini-1.5"):
		return "gemini-1.5", true
	case strings.Contains(lower, "gemini-1.0"), strings.Contains(lower, "gemini-pro"):
		return "gemini-1.0", true
	case strings.Contains(lower, "gemini"):
		return "gemini", true
	default:
		return "", false
	}
}

func (geminiProvider) NormalizeTokenType(rawTag string) string {
	switch rawTag {
	case "input", "prompt", "input_tokens", "prompt_tokens":
		return TokenInput
	case "output", "completion", "output_tokens", "completion_tokens":
		return TokenOutput
	default:
		return ""
	}
}

func (geminiProvider) SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gemini", "settings.json"), nil
}

func geminiTelemetryBlock() map[string]any {
	return map[string]any{
		"telemetry": map[string]any{
			"enabled":      true,
			"target":       "local",
			"otlpEndpoint": "http://localhost:4318",
			"otlpProtocol": "http",
		},
	}
}

func (p geminiProvider) EnsureConfigured() (bool, error) {
	path, err := p.SettingsPath()
	if err != nil {
		return false, err
	}
	buildDefault := func() map[string]any { return geminiTelemetryBlock() }
	required := geminiTelemetryBlock()
	return settings.EnsureJSON(path, buildDefault, required, nil)
}
