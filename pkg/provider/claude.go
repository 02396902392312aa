package provider

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agenttop/agenttop/pkg/settings"
)

// claudeProvider grounds Claude Code's telemetry: metric prefix "claude_code",
// a 21-entry builtin tool list, and a settings.json env block that turns on
// OTLP export.
type claudeProvider struct{}

var claudeBuiltinTools = []string{
	"Read", "Write", "Edit", "Bash", "Glob", "Grep", "Task", "TodoRead",
	"TodoWrite", "WebFetch", "WebSearch", "Agent", "Skill", "AskUser",
	"AskUserQuestion", "MultiEdit", "NotebookEdit", "KillShell",
	"EnterPlanMode", "ExitPlanMode", "TaskOutput",
}

func (claudeProvider) ID() string             { return "claude_code" }
func (claudeProvider) Name() string           { return "Claude Code" }
func (claudeProvider) MetricPrefix() string   { return "claude_code" }
func (claudeProvider) BuiltinTools() []string { return claudeBuiltinTools }

func (claudeProvider) ShortenModelName(modelName string) (string, bool) {
	lower := strings.ToLower(modelName)
	var family string
	switch {
	case strings.Contains(lower, "opus"):
		family = "opus"
	case strings.Contains(lower, "sonnet"):
		family = "sonnet"
	case strings.Contains(lower, "haiku"):
		family = "haiku"
	default:
		return "", false
	}
	if version := extractClaudeVersion(lower); version != "" {
		return family + "-" + version, true
	}
	return family, true
}

func extractClaudeVersion(lower string) string {
	switch {
	case strings.Contains(lower, "-4.5-"), strings.Contains(lower, "-4-5-"):
		return "4.5"
	case strings.Contains(lower, "-4-"):
		return "4"
	case strings.Contains(lower, "-3.5-"), strings.Contains(lower, "-3-5-"):
		return "3.5"
	case strings.Contains(lower, "-3-"):
		return "3"
	case strings.Contains(lower, "-5-"):
		return "5"
	case strings.HasSuffix(lower, "-4"):
		return "4"
	case strings.HasSuffix(lower, "-5"):
		return "5"
	case strings.HasSuffix(lower, "-3"):
		return "3"
	default:
		return ""
	}
}

func (claudeProvider) NormalizeTokenType(rawTag string) string {
	switch rawTag {
	case "input":
		return TokenInput
	case "output":
		return TokenOutput
	case "cacheRead", "cache_read", "cache_hit":
		return TokenCacheRead
	case "cacheCreation", "cache_creation", "cache_write":
		return TokenCacheWrite
	default:
		return ""
	}
}

func (claudeProvider) SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

func claudeOTLPEnv() map[string]any {
	return map[string]any{
		"CLAUDE_CODE_ENABLE_TELEMETRY": "1",
		"OTEL_METRICS_EXPORTER":        "otlp",
		"OTEL_LOGS_EXPORTER":           "otlp",
		"OTEL_EXPORTER_OTLP_ENDPOINT":  "http://localhost:4318",
		"OTEL_EXPORTER_OTLP_PROTOCOL":  "http/protobuf",
	}
}

func claudeRequiredKeys() map[string]any {
	return map[string]any{
		"enableTelemetry": true,
		"env":             claudeOTLPEnv(),
	}
}

func (p claudeProvider) EnsureConfigured() (bool, error) {
	path, err := p.SettingsPath()
	if err != nil {
		return false, err
	}
	buildDefault := func() map[string]any { return claudeRequiredKeys() }
	required := claudeRequiredKeys()
	// "telemetry" was a top-level key written by an earlier CLI version; the
	// enableTelemetry/env keys above supersede it.
	return settings.EnsureJSON(path, buildDefault, required, []string{"telemetry"})
}
