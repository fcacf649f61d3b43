package cost

import (
	"fmt"
	"sync"

	"github.com/carlmei/promptcache/providers/ai"
)

// Tracker accumulates usage across repeated calls to the same model and
// reports the running dollar cost. All arithmetic is simple summation of the
// per-call counters plus the rate multiplication done by [ModelCost]; there is
// no estimation or amortization logic.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	model string
	total ai.Usage
	calls int
}

// NewTracker returns a Tracker pricing calls against the given model.
func NewTracker(model string) *Tracker {
	return &Tracker{model: model}
}

// Record adds one call's usage to the running totals. Nil usage records are
// counted as calls but contribute nothing.
func (t *Tracker) Record(usage *ai.Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	t.total.Add(usage)
}

// Total returns a copy of the accumulated usage counters.
func (t *Tracker) Total() ai.Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	return *t.total.Copy()
}

// Calls returns the number of recorded calls.
func (t *Tracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

// Summary compares the accumulated spend against an uncached baseline.
type Summary struct {
	Model string   `json:"model"`
	Calls int      `json:"calls"`
	Usage ai.Usage `json:"usage"`

	// Cost is the actual spend: input + output + cache write + cache read,
	// each at its own rate.
	Cost float64 `json:"cost"`

	// UncachedCost prices the same tokens as if every cache write and cache
	// read had been a regular input token.
	UncachedCost float64 `json:"uncached_cost"`

	// Savings is UncachedCost - Cost. Negative on workloads that only ever
	// write the cache without reading it back.
	Savings float64 `json:"savings"`
}

// String returns a human-readable one-line summary.
func (s Summary) String() string {
	return fmt.Sprintf("%s: %d calls, %d tokens, $%.6f (uncached $%.6f, savings $%.6f)",
		s.Model, s.Calls, s.Usage.TotalTokens, s.Cost, s.UncachedCost, s.Savings)
}

// Summary prices the accumulated usage and computes the savings relative to
// running the same workload without prompt caching.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	mc := GetModelCost(t.model)

	cost := mc.CalculateTotalCost(
		t.total.InputTokens,
		t.total.OutputTokens,
		t.total.CacheCreationInputTokens,
		t.total.CacheReadInputTokens,
	)

	// Without caching, cache-write and cache-read tokens would all have been
	// billed as regular input tokens.
	uncachedInput := t.total.InputTokens + t.total.CacheCreationInputTokens + t.total.CacheReadInputTokens
	uncachedCost := mc.CalculateInputCost(uncachedInput) + mc.CalculateOutputCost(t.total.OutputTokens)

	return Summary{
		Model:        t.model,
		Calls:        t.calls,
		Usage:        *t.total.Copy(),
		Cost:         cost,
		UncachedCost: uncachedCost,
		Savings:      uncachedCost - cost,
	}
}
