package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/carlmei/promptcache/core/cost"
	"github.com/carlmei/promptcache/providers/ai"
	"github.com/carlmei/promptcache/providers/memory"
	"github.com/carlmei/promptcache/providers/observability"
	"github.com/carlmei/promptcache/providers/tool"
)

// defaultMaxToolIterations bounds the tool dispatch loop so a misbehaving model
// cannot trigger unbounded provider calls.
const defaultMaxToolIterations = 10

// Client orchestrates conversations with an LLM provider. It owns the optional
// conversation memory, the registered tool catalog, the send middleware chain,
// and the optional cost tracker. A zero Client is not usable; construct one
// with New.
type Client struct {
	llmProvider    ai.Provider
	memoryProvider memory.Provider
	observer       observability.Provider

	systemPrompt string
	systemBlocks []ai.SystemBlock
	defaultModel string

	generationConfig  *ai.GenerationConfig
	toolCatalog       *tool.Catalog
	maxToolIterations int

	costTracker *cost.Tracker

	middlewares []Middleware
	sendChain   SendFunc
}

// Option configures a Client during construction.
type Option func(*Client) error

// WithMemory attaches a conversation memory provider. When set, SendMessage
// appends the user prompt and assistant replies to memory and sends the full
// stored history on every request, enabling multi-turn conversations.
func WithMemory(provider memory.Provider) Option {
	return func(c *Client) error {
		c.memoryProvider = provider
		return nil
	}
}

// WithObserver attaches an observability provider. New prepends
// [NewObservabilityMiddleware] to the middleware chain so every request is
// traced, measured and logged end to end.
func WithObserver(observer observability.Provider) Option {
	return func(c *Client) error {
		c.observer = observer
		return nil
	}
}

// WithSystemPrompt sets a plain-text system prompt sent with every request.
// It is ignored when WithSystemBlocks is also set.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) error {
		c.systemPrompt = prompt
		return nil
	}
}

// WithSystemBlocks sets the segmented system prompt sent with every request.
// Segment boundaries are preserved on the wire, which is what allows providers
// with prompt caching enabled to mark the final segment as a cache breakpoint.
func WithSystemBlocks(blocks ...ai.SystemBlock) Option {
	return func(c *Client) error {
		c.systemBlocks = blocks
		return nil
	}
}

// WithDefaultModel sets the model identifier used for every request issued by
// this client. Providers fall back to their own default when empty.
func WithDefaultModel(model string) Option {
	return func(c *Client) error {
		c.defaultModel = model
		return nil
	}
}

// WithGenerationConfig sets sampling parameters (max tokens, temperature, ...)
// applied to every request.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(c *Client) error {
		c.generationConfig = &config
		return nil
	}
}

// WithTools registers tools the model may call. Tool calls returned by the
// provider are dispatched automatically during SendMessage.
func WithTools(tools ...tool.GenericTool) Option {
	return func(c *Client) error {
		for _, t := range tools {
			if t == nil {
				return errors.New("tool cannot be nil")
			}
		}
		c.toolCatalog.AddTools(tools...)
		return nil
	}
}

// WithMaxToolIterations overrides the bound on consecutive tool dispatch
// rounds within a single SendMessage call.
func WithMaxToolIterations(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return fmt.Errorf("max tool iterations must be >= 1, got %d", n)
		}
		c.maxToolIterations = n
		return nil
	}
}

// WithMiddlewares installs send middlewares. They execute in the given order,
// first middleware outermost. The observability middleware added by
// WithObserver always wraps them all.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(c *Client) error {
		for _, m := range middlewares {
			if m == nil {
				return errors.New("middleware cannot be nil")
			}
		}
		c.middlewares = append(c.middlewares, middlewares...)
		return nil
	}
}

// WithCostTracker attaches a cost tracker that records the usage counters of
// every provider response, including responses produced mid tool loop.
func WithCostTracker(tracker *cost.Tracker) Option {
	return func(c *Client) error {
		c.costTracker = tracker
		return nil
	}
}

// New creates a Client bound to the given LLM provider.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, errors.New("llm provider cannot be nil")
	}

	c := &Client{
		llmProvider:       provider,
		toolCatalog:       tool.NewCatalog(),
		maxToolIterations: defaultMaxToolIterations,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	middlewares := c.middlewares
	if c.observer != nil {
		middlewares = append([]Middleware{NewObservabilityMiddleware(c.observer, c.defaultModel)}, middlewares...)
	}
	c.sendChain = buildSendChain(provider, middlewares)

	return c, nil
}

// SendMessage sends a user prompt and runs the conversation to completion,
// dispatching tool calls as the model requests them. When a memory provider is
// configured the prompt and all intermediate messages are appended to it and
// the full history is sent; otherwise the call is single-turn.
func (c *Client) SendMessage(ctx context.Context, prompt string) (*ai.ChatResponse, error) {
	if prompt == "" {
		return nil, errors.New("prompt cannot be empty, use ContinueConversation() to resume from stored history")
	}

	userMessage := ai.Message{Role: ai.RoleUser, Content: prompt}

	if c.memoryProvider == nil {
		return c.conversationLoop(ctx, []ai.Message{userMessage})
	}

	c.memoryProvider.AppendMessage(ctx, &userMessage)

	messages, err := c.memoryProvider.AllMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading conversation history: %w", err)
	}
	return c.conversationLoop(ctx, messages)
}

// ContinueConversation re-sends the stored conversation history without adding
// a new user message. It requires a memory provider and a non-empty history.
func (c *Client) ContinueConversation(ctx context.Context) (*ai.ChatResponse, error) {
	if c.memoryProvider == nil {
		return nil, errors.New("ContinueConversation requires a memory provider, use WithMemory()")
	}

	messages, err := c.memoryProvider.AllMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading conversation history: %w", err)
	}
	if len(messages) == 0 {
		return nil, errors.New("cannot continue an empty conversation, use SendMessage() first")
	}

	return c.conversationLoop(ctx, messages)
}

// conversationLoop sends the request and dispatches tool calls until the
// provider signals a stop message or the iteration bound is hit. The final
// assistant reply is persisted to memory when a memory provider is configured.
func (c *Client) conversationLoop(ctx context.Context, messages []ai.Message) (*ai.ChatResponse, error) {
	request := c.buildRequest(messages)

	var response *ai.ChatResponse
	for iteration := 0; ; iteration++ {
		var err error
		response, err = c.sendChain(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		if c.costTracker != nil {
			c.costTracker.Record(response.Usage)
		}

		if c.llmProvider.IsStopMessage(response) || len(response.ToolCalls) == 0 {
			break
		}
		if iteration >= c.maxToolIterations {
			return nil, fmt.Errorf("tool loop exceeded %d iterations", c.maxToolIterations)
		}

		toolMessages, err := c.dispatchToolCalls(ctx, response)
		if err != nil {
			return nil, err
		}
		request.Messages = append(request.Messages, toolMessages...)
	}

	if c.memoryProvider != nil && response.Content != "" {
		assistantMessage := ai.Message{Role: ai.RoleAssistant, Content: response.Content}
		c.memoryProvider.AppendMessage(ctx, &assistantMessage)
	}

	return response, nil
}

// dispatchToolCalls executes every tool call in the response and returns the
// assistant message followed by one tool result message per call, ready to be
// appended to the request. The same messages are persisted to memory when a
// memory provider is configured.
func (c *Client) dispatchToolCalls(ctx context.Context, response *ai.ChatResponse) ([]ai.Message, error) {
	assistantMessage := ai.Message{
		Role:      ai.RoleAssistant,
		Content:   response.Content,
		ToolCalls: response.ToolCalls,
	}
	messages := []ai.Message{assistantMessage}

	for _, call := range response.ToolCalls {
		result := c.executeToolCall(ctx, call)
		content, err := result.ToJSON()
		if err != nil {
			return nil, fmt.Errorf("encoding result of tool %q: %w", call.Function.Name, err)
		}
		messages = append(messages, ai.Message{
			Role:       ai.RoleTool,
			Content:    content,
			ToolCallID: call.ID,
			Name:       call.Function.Name,
		})
	}

	if c.memoryProvider != nil {
		for i := range messages {
			c.memoryProvider.AppendMessage(ctx, &messages[i])
		}
	}

	return messages, nil
}

// executeToolCall runs a single tool. Tool failures never fail the
// conversation: errors are converted to error results so the model can react
// to them.
func (c *Client) executeToolCall(ctx context.Context, call ai.ToolCall) ai.ToolResult {
	registered, found := c.toolCatalog.Get(call.Function.Name)
	if !found {
		return ai.NewToolResultError("unknown_tool", fmt.Sprintf("tool %q is not registered", call.Function.Name))
	}

	output, err := registered.Call(ctx, call.Function.Arguments)
	if err != nil {
		return ai.NewToolResultError("execution_failed", err.Error())
	}
	return ai.NewToolResultSuccess(output)
}

func (c *Client) buildRequest(messages []ai.Message) ai.ChatRequest {
	request := ai.ChatRequest{
		Model:            c.defaultModel,
		Messages:         messages,
		GenerationConfig: c.generationConfig,
	}

	if len(c.systemBlocks) > 0 {
		request.System = c.systemBlocks
	} else if c.systemPrompt != "" {
		request.SystemPrompt = c.systemPrompt
	}

	if tools := c.toolCatalog.Descriptions(); len(tools) > 0 {
		request.Tools = tools
	}

	return request
}
