package cost

import (
	"strings"

	"github.com/carlmei/promptcache/providers/ai"
)

// Model name constants for Claude models.
// Use these constants instead of raw strings for type safety and autocompletion.
const (
	// Claude 4 models
	ModelOpus41   = "claude-opus-4-1"
	ModelOpus4    = "claude-opus-4-0"
	ModelSonnet45 = "claude-sonnet-4-5"
	ModelSonnet4  = "claude-sonnet-4-0"
	ModelHaiku45  = "claude-haiku-4-5"

	// Claude 3 models (legacy)
	ModelSonnet37 = "claude-3-7-sonnet"
	ModelHaiku35  = "claude-3-5-haiku"
)

// ModelPricing contains pricing information for supported Claude models.
// Prices are in USD per million tokens.
// Source: https://www.anthropic.com/pricing
//
// Cache writes are billed at 1.25x the input rate (for the default 5-minute
// TTL) and cache reads at 0.1x the input rate, uniformly across models.
var ModelPricing = map[string]ModelCost{
	// Opus - most capable
	// Input: $15.00/M, Output: $75.00/M
	ModelOpus41: {
		InputCostPerMillion:      15.00,
		OutputCostPerMillion:     75.00,
		CacheWriteCostPerMillion: 18.75, // 1.25x input
		CacheReadCostPerMillion:  1.50,  // 0.1x input
	},
	ModelOpus4: {
		InputCostPerMillion:      15.00,
		OutputCostPerMillion:     75.00,
		CacheWriteCostPerMillion: 18.75,
		CacheReadCostPerMillion:  1.50,
	},

	// Sonnet - balanced
	// Input: $3.00/M, Output: $15.00/M
	ModelSonnet45: {
		InputCostPerMillion:      3.00,
		OutputCostPerMillion:     15.00,
		CacheWriteCostPerMillion: 3.75,
		CacheReadCostPerMillion:  0.30,
	},
	ModelSonnet4: {
		InputCostPerMillion:      3.00,
		OutputCostPerMillion:     15.00,
		CacheWriteCostPerMillion: 3.75,
		CacheReadCostPerMillion:  0.30,
	},
	ModelSonnet37: {
		InputCostPerMillion:      3.00,
		OutputCostPerMillion:     15.00,
		CacheWriteCostPerMillion: 3.75,
		CacheReadCostPerMillion:  0.30,
	},

	// Haiku - fast and cheap
	// Input: $1.00/M, Output: $5.00/M
	ModelHaiku45: {
		InputCostPerMillion:      1.00,
		OutputCostPerMillion:     5.00,
		CacheWriteCostPerMillion: 1.25,
		CacheReadCostPerMillion:  0.10,
	},
	ModelHaiku35: {
		InputCostPerMillion:      0.80,
		OutputCostPerMillion:     4.00,
		CacheWriteCostPerMillion: 1.00,
		CacheReadCostPerMillion:  0.08,
	},
}

// GetModelCost returns the cost configuration for a given model name.
// It handles dated snapshot names (e.g., "claude-sonnet-4-5-20250929" matches
// "claude-sonnet-4-5"). Returns the Sonnet pricing as a conservative fallback
// when the model is not found.
func GetModelCost(model string) ModelCost {
	// Direct lookup first
	if mc, ok := ModelPricing[model]; ok {
		return mc
	}

	normalizedModel := normalizeModelName(model)
	if mc, ok := ModelPricing[normalizedModel]; ok {
		return mc
	}

	return ModelPricing[ModelSonnet45]
}

// normalizeModelName strips dated snapshot suffixes and "latest" aliases so
// variants map onto the pricing table.
// Examples:
//   - "claude-sonnet-4-5-20250929" -> "claude-sonnet-4-5"
//   - "claude-3-5-haiku-latest" -> "claude-3-5-haiku"
func normalizeModelName(model string) string {
	normalized := strings.TrimSuffix(model, "-latest")

	// Dated snapshots end in an 8-digit date segment.
	if idx := strings.LastIndex(normalized, "-"); idx > 0 {
		suffix := normalized[idx+1:]
		if len(suffix) == 8 && isDigits(suffix) {
			normalized = normalized[:idx]
		}
	}

	return normalized
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CalculateCost calculates the total cost for a given model and usage record,
// including the cache write and cache read categories.
func CalculateCost(model string, usage *ai.Usage) float64 {
	if usage == nil {
		return 0
	}

	mc := GetModelCost(model)
	return mc.CalculateTotalCost(
		usage.InputTokens,
		usage.OutputTokens,
		usage.CacheCreationInputTokens,
		usage.CacheReadInputTokens,
	)
}

// CostBreakdown provides a detailed breakdown of costs for a single request.
type CostBreakdown struct {
	Model            string  `json:"model"`
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	CacheWriteTokens int     `json:"cache_write_tokens"`
	CacheReadTokens  int     `json:"cache_read_tokens"`
	InputCost        float64 `json:"input_cost"`
	OutputCost       float64 `json:"output_cost"`
	CacheWriteCost   float64 `json:"cache_write_cost"`
	CacheReadCost    float64 `json:"cache_read_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// CalculateCostBreakdown returns a detailed breakdown of costs for a given
// model and usage record.
func CalculateCostBreakdown(model string, usage *ai.Usage) CostBreakdown {
	if usage == nil {
		return CostBreakdown{Model: model}
	}

	mc := GetModelCost(model)

	inputCost := mc.CalculateInputCost(usage.InputTokens)
	outputCost := mc.CalculateOutputCost(usage.OutputTokens)
	cacheWriteCost := mc.CalculateCacheWriteCost(usage.CacheCreationInputTokens)
	cacheReadCost := mc.CalculateCacheReadCost(usage.CacheReadInputTokens)

	return CostBreakdown{
		Model:            model,
		InputTokens:      usage.InputTokens,
		OutputTokens:     usage.OutputTokens,
		CacheWriteTokens: usage.CacheCreationInputTokens,
		CacheReadTokens:  usage.CacheReadInputTokens,
		InputCost:        inputCost,
		OutputCost:       outputCost,
		CacheWriteCost:   cacheWriteCost,
		CacheReadCost:    cacheReadCost,
		TotalCost:        inputCost + outputCost + cacheWriteCost + cacheReadCost,
	}
}
