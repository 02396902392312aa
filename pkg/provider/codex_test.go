package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodexShortenModelName(t *testing.T) {
	p := codexProvider{}

	cases := map[string]string{
		"gpt-4o-2024-08-06":   "gpt-4o",
		"gpt-4-turbo-preview": "gpt-4-turbo",
		"gpt-4-0613":          "gpt-4",
		"gpt-3.5-turbo":       "gpt-3.5",
		"o1-preview":          "o1-preview",
		"o1-mini":             "o1-mini",
		"o1":                  "o1",
		"o3-mini":             "o3-mini",
		"o3":                  "o3",
	}
	for in, want := range cases {
		got, ok := p.ShortenModelName(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := p.ShortenModelName("claude-opus-4")
	assert.False(t, ok)
}

func TestCodexNormalizeTokenType(t *testing.T) {
	p := codexProvider{}
	assert.Equal(t, TokenInput, p.NormalizeTokenType("prompt_tokens"))
	assert.Equal(t, TokenOutput, p.NormalizeTokenType("completion_tokens"))
	assert.Equal(t, "", p.NormalizeTokenType("input"))
}

func TestCodexEnsureConfiguredIsNoop(t *testing.T) {
	p := codexProvider{}
	changed, err := p.EnsureConfigured()
	assert.NoError(t, err)
	assert.False(t, changed)
}
