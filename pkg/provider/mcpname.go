package provider

import "regexp"

// MCP tool names follow one of two shapes:
//
//	mcp__<server>__<tool>
//	mcp__plugin_<plugin>_<server>__<tool>
//
// The plugin form is tried first since it's strictly more specific than the
// plain form (both start with "mcp__").
var (
	reMCPPlugin = regexp.MustCompile(`^mcp__plugin_[A-Za-z0-9-]+_([A-Za-z0-9-]+)__(.+)$`)
	reMCP       = regexp.MustCompile(`^mcp__([A-Za-z0-9-]+)__(.+)$`)
)

// ParseMCPToolName extracts the (server, tool) pair from an MCP-style tool
// identifier. ok is false when name doesn't match either MCP shape, in
// which case callers should treat name as a plain, non-MCP tool identifier.
func ParseMCPToolName(name string) (server, tool string, ok bool) {
	if m := reMCPPlugin.FindStringSubmatch(name); m != nil {
		return m[1], m[2], true
	}
	if m := reMCP.FindStringSubmatch(name); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// DisplayToolName renders the TUI-facing label for a tool event: "server:tool"
// for MCP tools, the raw identifier for everything else.
func DisplayToolName(name string) string {
	server, tool, ok := ParseMCPToolName(name)
	if !ok {
		return name
	}
	return server + ":" + tool
}
