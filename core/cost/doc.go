// Package cost tracks the dollar cost of LLM usage, with prompt caching as a
// first-class concern.
//
// [ModelCost] holds per-million-token rates for the four billing categories of
// a cached request: regular input, output, cache writes (billed at a premium
// over input) and cache reads (billed at a steep discount). A pricing table
// for current Claude models is included; [CalculateCost] and
// [CalculateCostBreakdown] price a single [ai.Usage] record.
//
// [Tracker] accumulates usage across repeated calls by simple summation and
// reports a [Summary] comparing the actual spend against what the same tokens
// would have cost without caching.
//
// [ToolMetrics] carries per-call cost and quality metadata for tools, used by
// the tool registry for logging and selection hints.
package cost
