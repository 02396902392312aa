package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaudeShortenModelName(t *testing.T) {
	p := claudeProvider{}

	cases := []struct {
		in   string
		want string
	}{
		{"claude-opus-4-5-20250101", "opus-4.5"},
		{"claude-sonnet-4-20250101", "sonnet-4"},
		{"claude-haiku-3-5-20241022", "haiku-3.5"},
		{"claude-sonnet-3-20240229", "sonnet-3"},
		{"claude-sonnet-4-20250514", "sonnet-4"},
	}
	for _, c := range cases {
		got, ok := p.ShortenModelName(c.in)
		assert.True(t, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, ok := p.ShortenModelName("gpt-4o")
	assert.False(t, ok)
}

func TestClaudeNormalizeTokenType(t *testing.T) {
	p := claudeProvider{}
	assert.Equal(t, TokenInput, p.NormalizeTokenType("input"))
	assert.Equal(t, TokenOutput, p.NormalizeTokenType("output"))
	assert.Equal(t, TokenCacheRead, p.NormalizeTokenType("cacheRead"))
	assert.Equal(t, TokenCacheRead, p.NormalizeTokenType("cache_hit"))
	assert.Equal(t, TokenCacheWrite, p.NormalizeTokenType("cacheCreation"))
	assert.Equal(t, "", p.NormalizeTokenType("totally_unknown"))
}

func TestClaudeBuiltinTools(t *testing.T) {
	p := claudeProvider{}
	assert.Len(t, p.BuiltinTools(), 21)
	assert.Contains(t, p.BuiltinTools(), "Bash")
	assert.Contains(t, p.BuiltinTools(), "TaskOutput")
}
