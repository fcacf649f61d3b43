// Package ai defines the shared, provider-agnostic types and interfaces used
// by LLM provider implementations. Each provider's conversion layer is
// responsible for mapping these types to its own wire format, keeping the
// rest of the codebase decoupled from provider-specific details.
//
// The central interface is [Provider] for synchronous chat completions.
// Request data flows through [ChatRequest] — including the ordered
// [SystemBlock] list that providers may flag for prompt caching — and
// responses are returned as [ChatResponse] together with a [Usage] record
// carrying the raw token counters reported by the remote API.
package ai
