package anthropic

import "encoding/json"

/*
	ANTHROPIC MESSAGES API - REQUEST TYPES
*/

// anthropicRequest represents the request body for Anthropic's Messages API.
type anthropicRequest struct {
	Model       string               `json:"model"`
	Messages    []anthropicMessage   `json:"messages"`
	System      json.RawMessage      `json:"system,omitempty"` // String or []anthropicContentBlock
	MaxTokens   int                  `json:"max_tokens"`       // Required by Anthropic on every request
	Temperature *float64             `json:"temperature,omitempty"`
	TopP        *float64             `json:"top_p,omitempty"`
	TopK        *int                 `json:"top_k,omitempty"`
	Tools       []anthropicTool      `json:"tools,omitempty"`
	ToolChoice  *anthropicToolChoice `json:"tool_choice,omitempty"`
	Metadata    *anthropicMetadata   `json:"metadata,omitempty"`
}

// anthropicMessage represents a single message in the conversation.
type anthropicMessage struct {
	Role    string                  `json:"role"`    // "user" or "assistant"
	Content []anthropicContentBlock `json:"content"` // Array of content blocks
}

// anthropicContentBlock is a discriminated union via the Type field.
// Depending on Type, different fields are populated:
//   - "text": Text + optional CacheControl
//   - "tool_use": ID, Name, Input
//   - "tool_result": ToolUseID, Content, IsError
type anthropicContentBlock struct {
	Type         string                 `json:"type"`
	Text         string                 `json:"text,omitempty"`
	ID           string                 `json:"id,omitempty"`            // For tool_use
	Name         string                 `json:"name,omitempty"`          // For tool_use
	Input        json.RawMessage        `json:"input,omitempty"`         // For tool_use (arbitrary JSON)
	ToolUseID    string                 `json:"tool_use_id,omitempty"`   // For tool_result
	Content      json.RawMessage        `json:"content,omitempty"`       // For tool_result (string or content blocks)
	IsError      bool                   `json:"is_error,omitempty"`      // For tool_result
	CacheControl *anthropicCacheControl `json:"cache_control,omitempty"` // For prompt caching
}

// anthropicCacheControl marks a content block or tool definition as a cache
// breakpoint. TTL is optional on the wire; when omitted the API applies the
// default 5-minute lifetime.
type anthropicCacheControl struct {
	Type string `json:"type"`          // "ephemeral"
	TTL  string `json:"ttl,omitempty"` // "5m" or "1h"
}

// anthropicTool describes a tool/function available to the model.
type anthropicTool struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	InputSchema  json.RawMessage        `json:"input_schema"`            // JSON Schema for tool input
	CacheControl *anthropicCacheControl `json:"cache_control,omitempty"` // For prompt caching on tool definitions
}

// anthropicToolChoice controls which tool the model should use.
type anthropicToolChoice struct {
	Type                   string `json:"type"`           // "auto", "any", "tool"
	Name                   string `json:"name,omitempty"` // Only for type="tool"
	DisableParallelToolUse bool   `json:"disable_parallel_tool_use,omitempty"`
}

// anthropicMetadata contains optional request metadata.
type anthropicMetadata struct {
	UserID string `json:"user_id,omitempty"`
}

/*
	ANTHROPIC MESSAGES API - RESPONSE TYPES
*/

// anthropicResponse represents the response from Anthropic's Messages API.
type anthropicResponse struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`    // "message"
	Role         string                 `json:"role"`    // "assistant"
	Content      []responseContentBlock `json:"content"` // Response content blocks
	Model        string                 `json:"model"`
	StopReason   string                 `json:"stop_reason"`
	StopSequence string                 `json:"stop_sequence,omitempty"`
	Usage        anthropicUsage         `json:"usage"`
}

// responseContentBlock represents a content block in the response.
// The Type field discriminates between text and tool_use blocks. Unknown type
// values are silently ignored during conversion for forward-compatibility.
type responseContentBlock struct {
	Type  string          `json:"type"`            // "text", "tool_use"
	Text  string          `json:"text,omitempty"`  // For type="text"
	ID    string          `json:"id,omitempty"`    // For type="tool_use"
	Name  string          `json:"name,omitempty"`  // For type="tool_use"
	Input json.RawMessage `json:"input,omitempty"` // For type="tool_use" (arbitrary JSON)
}

// anthropicUsage reports token consumption for a single request. The cache
// counters appear only on requests that used prompt caching.
type anthropicUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
}
