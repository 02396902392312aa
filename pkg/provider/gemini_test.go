package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeminiShortenModelName(t *testing.T) {
	p := geminiProvider{}

	cases := map[string]string{
		"gemini-2.0-flash":  "gemini-2.0-flash",
		"gemini-2.0-pro":    "gemini-2.0-pro",
		"gemini-1.5-pro":    "gemini-1.5-pro",
		"gemini-1.5-flash":  "gemini-1.5-flash",
		"gemini-pro":        "gemini-1.0",
		"gemini-ultra-9000": "gemini",
	}
	for in, want := range cases {
		got, ok := p.ShortenModelName(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := p.ShortenModelName("gpt-4o")
	assert.False(t, ok)
}

func TestGeminiNormalizeTokenType(t *testing.T) {
	p := geminiProvider{}
	assert.Equal(t, TokenInput, p.NormalizeTokenType("prompt_tokens"))
	assert.Equal(t, TokenOutput, p.NormalizeTokenType("completion_tokens"))
	assert.Equal(t, "", p.NormalizeTokenType("cache_read"))
}
