// Package anthropic implements the [ai.Provider] interface for Anthropic's
// Messages API, with first-class support for prompt caching.
//
// It handles request conversion from the generic [ai.ChatRequest] format to
// Anthropic's Messages wire format and response mapping back to
// [ai.ChatResponse]. With [Capabilities.PromptCaching] enabled, the system
// prompt travels as a content-block array with a cache_control annotation on
// the last block, so repeated requests sharing that prefix are served from the
// server-side cache. The response's usage counters (including
// cache_creation_input_tokens and cache_read_input_tokens) are surfaced
// verbatim on [ai.Usage].
//
// The primary entry point is [New], which reads ANTHROPIC_API_KEY and
// ANTHROPIC_API_BASE_URL from the environment. Use [AnthropicProvider.WithAPIKey],
// [AnthropicProvider.WithBaseURL], or [AnthropicProvider.WithHttpClient] to configure
// the provider programmatically. Caching and beta features are controlled via
// [AnthropicProvider.WithCapabilities].
package anthropic
