package ai

import (
	"encoding/json"

	"github.com/carlmei/promptcache/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Contains all messages in the conversation except system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt as a single string
	System           []SystemBlock     `json:"system,omitempty"`            // Optional ordered system segments; takes precedence over SystemPrompt
	Tools            []ToolDescription `json:"tools,omitempty"`             // Contains tool definitions if any
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
	ToolChoice       *ToolChoice       `json:"tool_choice,omitempty"`       // Optional tool choice constraint
}

// SystemBlock is one ordered segment of the system prompt. Providers that
// support prompt caching send segments as separate content blocks so a cache
// breakpoint can be attached to the last one; order is preserved end to end.
type SystemBlock struct {
	Text string `json:"text"`
}

// CacheTTL selects how long a provider keeps a flagged prompt segment in its
// cache. Providers validate the value before sending; extended lifetimes may
// require a vendor opt-in.
type CacheTTL string

const (
	// CacheTTL5m is the default cache lifetime.
	CacheTTL5m CacheTTL = "5m"

	// CacheTTL1h is the extended cache lifetime. Anthropic gates it behind a
	// beta opt-in header.
	CacheTTL1h CacheTTL = "1h"
)

// SystemBlocksOf wraps plain strings into a []SystemBlock, preserving order.
func SystemBlocksOf(texts ...string) []SystemBlock {
	blocks := make([]SystemBlock, len(texts))
	for i, text := range texts {
		blocks[i] = SystemBlock{Text: text}
	}
	return blocks
}

// ToolDescription advertises a callable tool to the model.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Required    bool               `json:"required,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	// Core fields (always present)
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being responded to
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that generated this response
}

// GenerationConfig tunes sampling and output limits for a single request.
type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Optional max tokens for the response
	Temperature float32 `json:"temperature,omitempty"` // Sampling temperature. Higher => more random; lower => more deterministic.
	TopP        float32 `json:"top_p,omitempty"`       // Nucleus (top-p) sampling [0..1]. Alternative to temperature.
	TopK        int     `json:"top_k,omitempty"`       // Top-k sampling; 0 leaves the provider default in place.
}

// ToolChoice constrains which tool the model may call.
type ToolChoice struct {
	// ToolChoiceForced names a specific tool the model must call.
	// The literals "auto" and "any" map to the provider's native modes.
	ToolChoiceForced string `json:"tool_choice_forced,omitempty"`

	// AtLeastOneRequired forces the model to call at least one tool.
	AtLeastOneRequired bool `json:"at_least_one_required,omitempty"`
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports the token counters returned by the remote API for one request.
// The cache counters are copied verbatim from the provider response: cache
// writes are billed when a flagged segment is newly stored server-side, cache
// reads are billed at a discount when a segment is served from the cache.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`

	// TotalTokens is input + output. The only derived field; everything else
	// mirrors the provider response.
	TotalTokens int `json:"total_tokens,omitempty"`
}

// Copy returns a deep copy of the usage record.
func (u *Usage) Copy() *Usage {
	return &Usage{
		InputTokens:              u.InputTokens,
		OutputTokens:             u.OutputTokens,
		CacheCreationInputTokens: u.CacheCreationInputTokens,
		CacheReadInputTokens:     u.CacheReadInputTokens,
		TotalTokens:              u.TotalTokens,
	}
}

// Add accumulates other into u field by field. Used by the cost tracker to
// sum usage across repeated calls; no arithmetic beyond simple sums.
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResponse represents the response from a chat completion.
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Object       string     `json:"object"`
	Created      int64      `json:"created"`
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`
}

/*
	##### ENUMS #####
*/

// ToolCall represents a function/tool call request from the LLM.
type ToolCall struct {
	ID       string           `json:"id,omitempty"` // Unique identifier for this tool call
	Type     string           `json:"type"`         // "function"
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// ToolResult represents a standardized tool execution result.
// This structure provides consistent error handling and success reporting
// for tool executions, making it easier for LLMs to understand outcomes.
type ToolResult struct {
	Success bool   `json:"success"`           // Whether the tool executed successfully
	Error   string `json:"error,omitempty"`   // Error type if success=false (e.g., "tool_not_found")
	Message string `json:"message,omitempty"` // Human-readable message or error description
	Data    any    `json:"data,omitempty"`    // Actual result data if success=true
}

// NewToolResultSuccess creates a successful tool result.
func NewToolResultSuccess(data any) ToolResult {
	return ToolResult{
		Success: true,
		Data:    data,
	}
}

// NewToolResultError creates a failed tool result with error details.
// errorType should be a machine-readable error code; message a human-readable
// description of what went wrong.
func NewToolResultError(errorType, message string) ToolResult {
	return ToolResult{
		Success: false,
		Error:   errorType,
		Message: message,
	}
}

// ToJSON converts the ToolResult to a JSON string.
func (tr ToolResult) ToJSON() (string, error) {
	bytes, err := json.Marshal(tr)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
	RoleTool      MessageRole = "tool"      // Tool/function output
)
