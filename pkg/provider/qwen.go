package provider

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agenttop/agenttop/pkg/settings"
)

// qwenProvider grounds Qwen Code's telemetry. Its id ("qwen_code") and
// metric prefix ("qwen-code", hyphenated) differ, same as Codex.
type qwenProvider struct{}

var qwenBuiltinTools = []string{
	"read_file", "write_file", "edit_file", "run_command", "search",
	"list_files", "create_file", "delete_file",
}

func (qwenProvider) ID() string             { return "qwen_code" }
func (qwenProvider) Name() string           { return "Qwen Code" }
func (qwenProvider) MetricPrefix() string   { return "qwen-code" }
func (qwenProvider) BuiltinTools() []string { return qwenBuiltinTools }

func (qwenProvider) ShortenModelName(modelName string) (string, bool) {
	lower := strings.ToLower(modelName)
	if !strings.Contains(lower, "qwen") {
		return "", false
	}
	coder := strings.Contains(lower, "coder")
	switch {
	case strings.Contains(lower, "2.5"):
		if coder {
			return "qwen-2.5-coder", true
		}
		return "qwen-2.5", true
	case strings.Contains(lower, "qwen2"), strings.Contains(lower, "qwen-2"):
		if coder {
			return "qwen-2-coder", true
		}
		return "qwen-2", true
	case strings.Contains(lower, "1.5"):
		return "qwen-1.5", true
	default:
		return "qwen", true
	}
}

func (qwenProvider) NormalizeTokenType(rawTag string) string {
	switch rawTag {
	case "input", "input_tokens":
		return TokenInput
	case "output", "output_tokens":
		return TokenOutput
	case "cache", "cache_tokens":
		return TokenCacheRead
	default:
		return ""
	}
}

func (qwenProvider) SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".qwen", "settings.json"), nil
}

func qwenTelemetryBlock() map[string]any {
	return map[string]any{
		"telemetry": map[string]any{
			"enabled":      true,
			"target":       "local",
			"otlpEndpoint": "http://localhost:4318",
			"otlpProtocol": "http",
		},
	}
}

func (p qwenProvider) EnsureConfigured() (bool, error) {
	path, err := p.SettingsPath()
	if err != nil {
		return false, err
	}
	buildDefault := func() map[string]any { return qwenTelemetryBlock() }
	required := qwenTelemetryBlock()
	return settings.EnsureJSON(path, buildDefault, required, nil)
}
