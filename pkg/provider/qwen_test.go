package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQwenShortenModelName(t *testing.T) {
	p := qwenProvider{}

	got, ok := p.ShortenModelName("qwen2.5-coder-32b")
	assert.True(t, ok)
	assert.Equal(t, "qwen-2.5-coder", got)

	got, ok = p.ShortenModelName("qwen-1.5-chat")
	assert.True(t, ok)
	assert.Equal(t, "qwen-1.5", got)

	_, ok = p.ShortenModelName("gpt-4o")
	assert.False(t, ok)
}

func TestQwenNormalizeTokenType(t *testing.T) {
	p := qwenProvider{}
	assert.Equal(t, TokenInput, p.NormalizeTokenType("input"))
	assert.Equal(t, TokenOutput, p.NormalizeTokenType("output"))
	assert.Equal(t, TokenCacheRead, p.NormalizeTokenType("cache"))
	assert.Equal(t, "", p.NormalizeTokenType("thought"))
	assert.Equal(t, "", p.NormalizeTokenType("tool"))
}
