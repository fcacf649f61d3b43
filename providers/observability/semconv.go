package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "claude-sonnet-4-5")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the unique response identifier from the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMCacheTTL is the requested prompt-cache time-to-live ("5m" or "1h")
	AttrLLMCacheTTL = "llm.cache.ttl"
)

// --- Token Usage Attributes ---

const (
	// AttrLLMTokensInput is the number of regular (uncached) input tokens
	AttrLLMTokensInput = "llm.tokens.input" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensOutput is the number of output tokens
	AttrLLMTokensOutput = "llm.tokens.output" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCacheWrite is the number of tokens newly written to the prompt cache
	AttrLLMTokensCacheWrite = "llm.tokens.cache_write" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensCacheRead is the number of tokens served from the prompt cache
	AttrLLMTokensCacheRead = "llm.tokens.cache_read" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolInput is the tool input (serialized)
	AttrToolInput = "tool.input"

	// AttrToolOutput is the tool output (serialized)
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if tool execution failed
	AttrToolError = "tool.error"
)

// --- Request/Response Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestSystemBlocksCount is the number of system segments in the request
	AttrRequestSystemBlocksCount = "request.system_blocks_count"

	// AttrRequestToolsCount is the number of tools in the request
	AttrRequestToolsCount = "request.tools_count"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Memory Attributes ---

const (
	// AttrMemoryMessageRole is the role of the message being stored
	AttrMemoryMessageRole = "memory.message.role"

	// AttrMemoryMessageLength is the length of the message content
	AttrMemoryMessageLength = "memory.message.length"

	// AttrMemoryTotalMessages is the total number of messages in memory
	AttrMemoryTotalMessages = "memory.total_messages"
)

// --- Client Attributes ---

const (
	// AttrClientPrompt is the user prompt/input
	AttrClientPrompt = "client.prompt"

	// AttrClientToolCalls is the number of tool calls in response
	AttrClientToolCalls = "client.tool_calls"

	// AttrClientContinuingConversation indicates a continuation turn without a new prompt
	AttrClientContinuingConversation = "client.continuing_conversation"
)

// --- General Attributes ---

const (
	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"
)

// --- Span Names ---

const (
	// SpanClientSendMessage is the span name for client message sending
	SpanClientSendMessage = "client.send_message"

	// SpanLLMRequest is the span name for LLM API requests
	SpanLLMRequest = "llm.request"

	// SpanToolExecution is the span name for tool executions
	SpanToolExecution = "tool.execution"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of an LLM request
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of an LLM request
	EventLLMRequestEnd = "llm.request.end"

	// EventToolExecutionStart marks the start of tool execution
	EventToolExecutionStart = "tool.execution.start"

	// EventToolExecutionEnd marks the end of tool execution
	EventToolExecutionEnd = "tool.execution.end"

	// EventTokensReceived marks when usage counters are received from the LLM
	EventTokensReceived = "llm.tokens.received" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// EventMemoryAppend marks when a message is appended to memory
	EventMemoryAppend = "memory.append"

	// EventMemoryClear marks when memory is cleared
	EventMemoryClear = "memory.clear"
)

// --- Metric Names ---

const (
	// MetricClientRequestCount is the counter for client requests
	MetricClientRequestCount = "promptcache.client.request.count"

	// MetricClientRequestDuration is the histogram for request duration
	MetricClientRequestDuration = "promptcache.client.request.duration"

	// MetricClientTokensTotal is the counter for total tokens
	MetricClientTokensTotal = "promptcache.client.tokens.total"

	// MetricClientTokensCacheRead is the counter for cache-read tokens
	MetricClientTokensCacheRead = "promptcache.client.tokens.cache_read"

	// MetricClientTokensCacheWrite is the counter for cache-write tokens
	MetricClientTokensCacheWrite = "promptcache.client.tokens.cache_write"
)
