package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/carlmei/promptcache/providers/ai"
)

// requestToAnthropic converts an ai.ChatRequest and provider Capabilities into
// an anthropicRequest ready to POST to Anthropic's Messages API.
// GenerationConfig fields are optional; safe defaults are applied when absent.
//
// Conversion is read-only with respect to the input: the caller's Messages,
// System, and Tools slices are never modified, so a request value can be
// reused across calls (and across providers) unchanged.
func requestToAnthropic(request ai.ChatRequest, capabilities Capabilities) (anthropicRequest, error) {
	if err := capabilities.validate(); err != nil {
		return anthropicRequest{}, err
	}

	req := anthropicRequest{
		Model:    request.Model,
		Messages: buildMessages(request.Messages),
	}

	// --- System prompt ---
	// Anthropic accepts the system field as either a plain JSON string or an
	// array of content blocks. Prompt caching requires the block array form so
	// that cache_control can be attached to the system content.
	system, err := buildSystem(request, capabilities)
	if err != nil {
		return anthropicRequest{}, err
	}
	req.System = system

	// --- GenerationConfig ---
	maxTokens := 4096 // Anthropic requires max_tokens on every request
	if request.GenerationConfig != nil {
		cfg := request.GenerationConfig

		if cfg.Temperature > 0 {
			temp := float64(cfg.Temperature)
			req.Temperature = &temp
		}

		if cfg.TopP > 0 {
			topP := float64(cfg.TopP)
			req.TopP = &topP
		}

		if cfg.TopK > 0 {
			topK := cfg.TopK
			req.TopK = &topK
		}

		if cfg.MaxTokens > 0 {
			maxTokens = cfg.MaxTokens
		}
	}
	req.MaxTokens = maxTokens

	// --- Tools ---
	if len(request.Tools) > 0 {
		req.Tools = buildAnthropicTools(request.Tools, capabilities)
		req.ToolChoice = buildAnthropicToolChoice(request.ToolChoice)
	}

	return req, nil
}

// buildSystem renders the system field of the wire request.
//
// The ordered System block list takes precedence over the legacy SystemPrompt
// string. With caching enabled, blocks go out as a content-block array and
// cache_control lands on exactly the last block: the API caches the prefix up
// to and including the flagged block, so flagging an earlier one would leave
// the tail uncached on every call.
func buildSystem(request ai.ChatRequest, capabilities Capabilities) (json.RawMessage, error) {
	blocks := request.System
	if len(blocks) == 0 && request.SystemPrompt != "" {
		blocks = []ai.SystemBlock{{Text: request.SystemPrompt}}
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	// Without caching a single segment travels as a plain JSON string,
	// simpler and slightly smaller on the wire.
	if !capabilities.PromptCaching && len(blocks) == 1 {
		systemBytes, err := json.Marshal(blocks[0].Text)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal system prompt: %w", err)
		}
		return systemBytes, nil
	}

	wireBlocks := make([]anthropicContentBlock, len(blocks))
	for i, block := range blocks {
		wireBlocks[i] = anthropicContentBlock{Type: "text", Text: block.Text}
	}
	if capabilities.PromptCaching {
		wireBlocks[len(wireBlocks)-1].CacheControl = capabilities.cacheControl()
	}

	systemBytes, err := json.Marshal(wireBlocks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal system blocks: %w", err)
	}
	return systemBytes, nil
}

// cacheControl builds the cache_control annotation for flagged blocks. The
// ttl field is omitted when unset; the API then applies its 5-minute default.
func (capabilities Capabilities) cacheControl() *anthropicCacheControl {
	return &anthropicCacheControl{
		Type: "ephemeral",
		TTL:  string(capabilities.CacheTTL),
	}
}

// buildMessages converts a slice of ai.Message into Anthropic message objects.
//
// Anthropic requires strictly alternating user/assistant turns. Consecutive
// tool-result messages (ai.RoleTool) are therefore merged into a single user
// message with multiple tool_result content blocks, which is the only layout
// the API accepts.
func buildMessages(messages []ai.Message) []anthropicMessage {
	var result []anthropicMessage

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleUser:
			result = append(result, anthropicMessage{
				Role:    "user",
				Content: []anthropicContentBlock{{Type: "text", Text: msg.Content}},
			})

		case ai.RoleAssistant:
			assistantMsg := anthropicMessage{Role: "assistant"}

			if msg.Content != "" {
				assistantMsg.Content = append(assistantMsg.Content, anthropicContentBlock{
					Type: "text",
					Text: msg.Content,
				})
			}

			// Tool calls are represented as tool_use blocks.
			for _, toolCall := range msg.ToolCalls {
				assistantMsg.Content = append(assistantMsg.Content, anthropicContentBlock{
					Type:  "tool_use",
					ID:    toolCall.ID,
					Name:  toolCall.Function.Name,
					Input: json.RawMessage(toolCall.Function.Arguments),
				})
			}

			if len(assistantMsg.Content) > 0 {
				result = append(result, assistantMsg)
			}

		case ai.RoleTool:
			// Marshal the tool result content as a JSON string so Anthropic
			// receives a well-formed JSON value in the content field.
			toolResultContent, err := json.Marshal(msg.Content)
			if err != nil {
				// Fallback to the raw string wrapped in quotes.
				toolResultContent = []byte(`"` + msg.Content + `"`)
			}

			toolResultBlock := anthropicContentBlock{
				Type:      "tool_result",
				ToolUseID: msg.ToolCallID,
				Content:   toolResultContent,
			}

			// Merge consecutive tool results into a single user message.
			// Anthropic forbids two consecutive user turns, so multiple tool
			// responses must be combined into one message.
			if len(result) > 0 && isAllToolResults(result[len(result)-1]) {
				result[len(result)-1].Content = append(result[len(result)-1].Content, toolResultBlock)
			} else {
				result = append(result, anthropicMessage{
					Role:    "user",
					Content: []anthropicContentBlock{toolResultBlock},
				})
			}

		case ai.RoleSystem:
			// System messages belong in the top-level system field, not here.
			// Handle them defensively as user messages to avoid a silent drop.
			result = append(result, anthropicMessage{
				Role:    "user",
				Content: []anthropicContentBlock{{Type: "text", Text: msg.Content}},
			})
		}
	}

	return result
}

// isAllToolResults returns true when every content block in msg is a
// tool_result block. This is used to identify the last message as a
// mergeable tool-result turn so consecutive tool messages can be combined.
func isAllToolResults(msg anthropicMessage) bool {
	if msg.Role != "user" || len(msg.Content) == 0 {
		return false
	}
	for _, block := range msg.Content {
		if block.Type != "tool_result" {
			return false
		}
	}
	return true
}

// buildAnthropicTools converts the provider-agnostic ToolDescription slice to
// Anthropic tool definitions.
//
// With caching enabled, cache_control is attached to the last tool only. This
// is the recommended Anthropic pattern for caching long tool lists: mark the
// final entry so everything up to and including it is cached together. Tool
// definitions sit before the system field in the cache prefix, so flagging
// them extends the cached region rather than fragmenting it.
func buildAnthropicTools(tools []ai.ToolDescription, capabilities Capabilities) []anthropicTool {
	result := make([]anthropicTool, 0, len(tools))

	for _, tool := range tools {
		toolEntry := anthropicTool{
			Name:        tool.Name,
			Description: tool.Description,
		}

		if tool.Parameters != nil {
			schemaBytes, err := json.Marshal(tool.Parameters)
			if err == nil {
				toolEntry.InputSchema = schemaBytes
			}
		} else {
			// Anthropic requires input_schema; send an empty object schema when
			// no parameters are defined so the request remains valid.
			toolEntry.InputSchema = json.RawMessage(`{"type":"object","properties":{}}`)
		}

		result = append(result, toolEntry)
	}

	if capabilities.PromptCaching && len(result) > 0 {
		result[len(result)-1].CacheControl = capabilities.cacheControl()
	}

	return result
}

// buildAnthropicToolChoice converts an ai.ToolChoice to its Anthropic wire
// representation. Returns nil when no explicit tool choice is specified,
// letting the API apply its default ("auto") behavior.
func buildAnthropicToolChoice(tc *ai.ToolChoice) *anthropicToolChoice {
	if tc == nil {
		return nil
	}

	if tc.ToolChoiceForced != "" {
		forcedName := tc.ToolChoiceForced
		// "auto" and "any" are Anthropic type literals, not tool names.
		switch strings.ToLower(forcedName) {
		case "auto":
			return &anthropicToolChoice{Type: "auto"}
		case "any", "required":
			return &anthropicToolChoice{Type: "any"}
		default:
			// Specific tool name, force the model to call exactly this tool.
			return &anthropicToolChoice{Type: "tool", Name: forcedName}
		}
	}

	if tc.AtLeastOneRequired {
		return &anthropicToolChoice{Type: "any"}
	}

	// No tool choice constraint specified; let the API default to "auto".
	return nil
}

// anthropicToGeneric converts an Anthropic Messages API response to the
// provider-agnostic ai.ChatResponse format.
//
// Multiple text blocks are joined with newlines into a single Content string.
// Unknown block types are silently skipped for forward-compatibility with
// future Anthropic content types.
func anthropicToGeneric(response anthropicResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:      response.ID,
		Model:   response.Model,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
	}

	var textParts []string

	for _, block := range response.Content {
		switch block.Type {
		case "text":
			textParts = append(textParts, block.Text)

		case "tool_use":
			result.ToolCalls = append(result.ToolCalls, ai.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: ai.ToolCallFunction{
					Name: block.Name,
					// Input is already a JSON object; convert to the string form
					// that ToolCallFunction.Arguments expects.
					Arguments: string(block.Input),
				},
			})

		default:
			// Unknown block types are silently ignored to remain compatible
			// with future Anthropic API additions.
		}
	}

	result.Content = strings.Join(textParts, "\n")
	result.FinishReason = mapStopReason(response.StopReason)

	// Copy the usage counters field for field from the API response. The cache
	// counters are reported exactly as billed; TotalTokens is the only derived
	// value (input + output).
	result.Usage = &ai.Usage{
		InputTokens:              response.Usage.InputTokens,
		OutputTokens:             response.Usage.OutputTokens,
		CacheCreationInputTokens: response.Usage.CacheCreationInputTokens,
		CacheReadInputTokens:     response.Usage.CacheReadInputTokens,
		TotalTokens:              response.Usage.InputTokens + response.Usage.OutputTokens,
	}

	return result
}

// mapStopReason converts an Anthropic stop_reason value to the canonical
// finish_reason string used by ai.ChatResponse.
func mapStopReason(stopReason string) string {
	switch stopReason {
	case "end_turn":
		return "stop"
	case "stop_sequence":
		return "stop"
	case "tool_use":
		return "tool_calls"
	case "max_tokens":
		return "length"
	default:
		return "stop"
	}
}
