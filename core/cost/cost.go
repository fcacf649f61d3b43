package cost

import "fmt"

// ModelCost represents the pricing structure for a language model.
// All rates are expressed in USD per million tokens.
//
// Example usage:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:      3.00,
//	    OutputCostPerMillion:     15.00,
//	    CacheWriteCostPerMillion: 3.75,
//	    CacheReadCostPerMillion:  0.30,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost per million uncached input tokens.
	InputCostPerMillion float64 `json:"input_cost_per_million"`

	// OutputCostPerMillion is the cost per million output tokens.
	OutputCostPerMillion float64 `json:"output_cost_per_million"`

	// CacheWriteCostPerMillion is the cost per million tokens written to the
	// prompt cache. Anthropic bills cache writes at 1.25x the input rate.
	CacheWriteCostPerMillion float64 `json:"cache_write_cost_per_million"`

	// CacheReadCostPerMillion is the cost per million tokens served from the
	// prompt cache. Anthropic bills cache reads at 0.1x the input rate.
	CacheReadCostPerMillion float64 `json:"cache_read_cost_per_million"`
}

// CalculateInputCost returns the cost of the given number of uncached input tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return float64(tokens) * mc.InputCostPerMillion / 1_000_000
}

// CalculateOutputCost returns the cost of the given number of output tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return float64(tokens) * mc.OutputCostPerMillion / 1_000_000
}

// CalculateCacheWriteCost returns the cost of the given number of cache-write tokens.
func (mc ModelCost) CalculateCacheWriteCost(tokens int) float64 {
	return float64(tokens) * mc.CacheWriteCostPerMillion / 1_000_000
}

// CalculateCacheReadCost returns the cost of the given number of cache-read tokens.
func (mc ModelCost) CalculateCacheReadCost(tokens int) float64 {
	return float64(tokens) * mc.CacheReadCostPerMillion / 1_000_000
}

// CalculateTotalCost returns the combined cost across all four billing
// categories of a cached request.
func (mc ModelCost) CalculateTotalCost(inputTokens, outputTokens, cacheWriteTokens, cacheReadTokens int) float64 {
	return mc.CalculateInputCost(inputTokens) +
		mc.CalculateOutputCost(outputTokens) +
		mc.CalculateCacheWriteCost(cacheWriteTokens) +
		mc.CalculateCacheReadCost(cacheReadTokens)
}

// String returns a human-readable summary of the pricing structure.
func (mc ModelCost) String() string {
	return fmt.Sprintf("in: $%.2f/M, out: $%.2f/M, cache write: $%.2f/M, cache read: $%.2f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion, mc.CacheWriteCostPerMillion, mc.CacheReadCostPerMillion)
}

// ToolMetrics represents the cost and quality information for a single tool
// execution. The cost can be expressed as a fixed amount per call or as a
// custom unit.
//
// Example usage:
//
//	metrics := cost.ToolMetrics{
//	    Amount:   0.001,
//	    Currency: "USD",
//	    Accuracy: 0.95,
//	}
type ToolMetrics struct {
	// Amount is the cost value for executing this tool once
	Amount float64 `json:"amount"`

	// Currency is the currency or unit for the cost (e.g., "USD", "EUR", "credits")
	Currency string `json:"currency,omitempty"`

	// CostDescription provides additional context about the cost
	// (e.g., "per API call", "per search query")
	CostDescription string `json:"cost_description,omitempty"`

	// Accuracy represents the accuracy/reliability score (0.0 to 1.0)
	Accuracy float64 `json:"accuracy,omitempty"`

	// Speed represents the average execution time in seconds
	Speed float64 `json:"speed,omitempty"`

	// AverageDurationInMillis is the observed average execution time in
	// milliseconds, surfaced in tool execution spans.
	AverageDurationInMillis int64 `json:"average_duration_in_millis,omitempty"`

	// Quality represents an overall quality score (0.0 to 1.0)
	Quality float64 `json:"quality,omitempty"`
}

// String returns a formatted string representation of the cost.
func (tm ToolMetrics) String() string {
	currency := tm.Currency
	if currency == "" {
		currency = "USD"
	}

	result := fmt.Sprintf("%.6f %s", tm.Amount, currency)
	if tm.CostDescription != "" {
		result = fmt.Sprintf("%s (%s)", result, tm.CostDescription)
	}
	return result
}
