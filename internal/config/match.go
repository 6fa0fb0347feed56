package config

import (
	"strings"

	"github.com/chemclerk/chemclerk/internal/providers"
)

// MatchResult is the resolved LLM provider config and registry name for a model.
type MatchResult struct {
	Provider *ProviderConfig
	Name     string // e.g. "openrouter", "anthropic"
}

// MatchProvider resolves which provider config and registry entry to use for model.
// If model is empty, the default model from agents.defaults.model is used.
//
// Priority order:
//  1. Explicit provider prefix in model string (e.g. "openai/gpt-4o" → openai)
//  2. Keyword match in model name (registry order)
//  3. Fallback: first provider with a configured API key
func (c *Config) MatchProvider(model string) MatchResult {
	if model == "" {
		model = c.Agents.Defaults.Model
	}
	modelLower := strings.ToLower(model)
	modelNorm := strings.ReplaceAll(modelLower, "-", "_")
	modelPrefix, _, _ := strings.Cut(modelLower, "/")
	normalizedPrefix := strings.ReplaceAll(modelPrefix, "-", "_")

	// 1. Explicit provider prefix wins.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		if modelPrefix != "" && normalizedPrefix == spec.Name && p.APIKey != "" {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	// 2. Keyword match.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p == nil || p.APIKey == "" {
			continue
		}
		for _, kw := range spec.Keywords {
			kw = strings.ToLower(kw)
			kwNorm := strings.ReplaceAll(kw, "-", "_")
			if strings.Contains(modelLower, kw) || strings.Contains(modelNorm, kwNorm) {
				return MatchResult{Provider: p, Name: spec.Name}
			}
		}
	}

	// 3. Fallback: first configured provider.
	for _, spec := range providers.PROVIDERS {
		if p := c.ProviderByName(spec.Name); p != nil && p.APIKey != "" {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	return MatchResult{}
}
