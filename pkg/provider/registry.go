package provider

import "strings"

// Registry is a closed, fixed-order set of known providers. Order matters:
// DetectFromMetric and ProviderForTool return the first match, and prefixes
// are not guaranteed to be disjoint across hypothetical future providers.
type Registry struct {
	providers []Provider
}

// NewRegistry builds the standard provider set in detection order.
func NewRegistry() *Registry {
	return &Registry{
		providers: []Provider{
			claudeProvider{},
			codexProvider{},
			geminiProvider{},
			qwenProvider{},
		},
	}
}

// DefaultRegistry is the shared, immutable provider set used throughout
// agenttop. It holds no mutable state, so a single instance is safe to use
// from every goroutine.
var DefaultRegistry = NewRegistry()

// All returns the providers in detection order.
func (r *Registry) All() []Provider {
	return r.providers
}

// Get looks up a provider by its ID (e.g. "claude_code", "openai_codex").
func (r *Registry) Get(id string) (Provider, bool) {
	for _, p := range r.providers {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// DetectFromMetric finds the provider whose MetricPrefix is a dot-boundary
// prefix of name, e.g. "claude_code.token.usage" matches "claude_code".
func (r *Registry) DetectFromMetric(name string) (Provider, bool) {
	for _, p := range r.providers {
		prefix := p.MetricPrefix()
		if name == prefix || strings.HasPrefix(name, prefix+".") {
			return p, true
		}
	}
	return nil, false
}

// NormalizeTokenType returns the first provider's non-empty normalization of
// rawTag, trying providers in registry order. A rawTag that is already one
// of the canonical tags normalizes to itself even if no provider claims it.
func (r *Registry) NormalizeTokenType(rawTag string) string {
	for _, p := range r.providers {
		if c := p.NormalizeTokenType(rawTag); c != "" {
			return c
		}
	}
	switch rawTag {
	case TokenInput, TokenOutput, TokenCacheRead, TokenCacheWrite:
		return rawTag
	default:
		return ""
	}
}

// ShortenModelName returns the first provider's short form of modelName,
// trying providers in registry order, falling back to generic 12-character
// truncation when no provider recognizes it.
func (r *Registry) ShortenModelName(modelName string) string {
	for _, p := range r.providers {
		if short, ok := p.ShortenModelName(modelName); ok {
			return short
		}
	}
	return shortenGeneric(modelName)
}

// IsAnyBuiltinTool reports whether toolName appears in any provider's
// builtin tool list.
func (r *Registry) IsAnyBuiltinTool(toolName string) bool {
	_, ok := r.ProviderForTool(toolName)
	return ok
}

// ProviderForTool returns the first provider whose builtin tool list
// contains toolName.
func (r *Registry) ProviderForTool(toolName string) (Provider, bool) {
	for _, p := range r.providers {
		for _, t := range p.BuiltinTools() {
			if t == toolName {
				return p, true
			}
		}
	}
	return nil, false
}
