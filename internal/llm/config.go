// Package llm wraps the generative model used for model-based résumé
// extraction.
package llm

import (
	"fmt"
	"slices"
)

// ModelTier selects a model by cost rather than by name, so deployments can
// move to newer models without touching callers.
type ModelTier string

const (
	TierLite     ModelTier = "lite"
	TierStandard ModelTier = "standard"
	TierAdvanced ModelTier = "advanced" // long or messy documents
)

// tiers is ordered from cheapest to most capable.
var tiers = []ModelTier{TierLite, TierStandard, TierAdvanced}

// Config maps tiers to provider model names.
type Config struct {
	Models map[ModelTier]string
}

func DefaultConfig() *Config {
	return &Config{Models: map[ModelTier]string{
		TierLite:     "gemini-2.5-flash-lite",
		TierStandard: "gemini-2.5-flash",
		TierAdvanced: "gemini-2.5-pro",
	}}
}

// ParseTier reads GEMINI_MODEL_TIER style values. Empty means lite.
func ParseTier(s string) (ModelTier, error) {
	if s == "" {
		return TierLite, nil
	}
	if tier := ModelTier(s); slices.Contains(tiers, tier) {
		return tier, nil
	}
	return "", fmt.Errorf("unknown model tier %q (want lite, standard or advanced)", s)
}

// GetModel returns the model configured for tier. When the tier has no
// model it steps down to the next cheaper tier that has one, and returns ""
// when none does.
func (c *Config) GetModel(tier ModelTier) string {
	i := slices.Index(tiers, tier)
	if i < 0 {
		i = len(tiers) - 1
	}
	for ; i >= 0; i-- {
		if model := c.Models[tiers[i]]; model != "" {
			return model
		}
	}
	return ""
}
