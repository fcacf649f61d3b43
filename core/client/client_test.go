package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/carlmei/promptcache/core/cost"
	"github.com/carlmei/promptcache/providers/ai"
	"github.com/carlmei/promptcache/providers/memory/inmemory"
	"github.com/carlmei/promptcache/providers/observability"
	"github.com/carlmei/promptcache/providers/tool"
)

// ========== Mock helpers ==========

// mockProvider is a scripted ai.Provider. Each SendMessage call pops the next
// response (or error) and records the request it received.
type mockProvider struct {
	mu        sync.Mutex
	requests  []ai.ChatRequest
	responses []*ai.ChatResponse
	errs      []error
	callCount int
}

func (m *mockProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := m.callCount
	m.callCount++
	m.requests = append(m.requests, request)

	if index < len(m.errs) && m.errs[index] != nil {
		return nil, m.errs[index]
	}
	if index < len(m.responses) {
		return m.responses[index], nil
	}
	return &ai.ChatResponse{Content: "default", FinishReason: "stop"}, nil
}

func (m *mockProvider) IsStopMessage(response *ai.ChatResponse) bool {
	return response == nil || len(response.ToolCalls) == 0
}

func (m *mockProvider) WithAPIKey(_ string) ai.Provider           { return m }
func (m *mockProvider) WithBaseURL(_ string) ai.Provider          { return m }
func (m *mockProvider) WithHttpClient(_ *http.Client) ai.Provider { return m }

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *mockProvider) request(i int) ai.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[i]
}

// errorMemory fails every operation, for testing error propagation.
type errorMemory struct{}

var errMemoryBroken = errors.New("memory unavailable")

func (e *errorMemory) AppendMessage(_ context.Context, _ *ai.Message) {}
func (e *errorMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	return nil, errMemoryBroken
}
func (e *errorMemory) LastMessages(_ context.Context, _ int) ([]ai.Message, error) {
	return nil, errMemoryBroken
}
func (e *errorMemory) PopLastMessage(_ context.Context) (*ai.Message, error) {
	return nil, errMemoryBroken
}
func (e *errorMemory) Count(_ context.Context) (int, error) { return 0, errMemoryBroken }
func (e *errorMemory) FilterByRole(_ context.Context, _ ai.MessageRole) ([]ai.Message, error) {
	return nil, errMemoryBroken
}
func (e *errorMemory) ClearMessages(_ context.Context) {}

// testObserver is an observability.Provider that counts spans and metric writes.
type testObserver struct {
	mu       sync.Mutex
	spans    []string
	counters map[string]int64
}

func newTestObserver() *testObserver {
	return &testObserver{counters: make(map[string]int64)}
}

func (o *testObserver) StartSpan(ctx context.Context, name string, _ ...observability.Attribute) (context.Context, observability.Span) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spans = append(o.spans, name)
	return ctx, &testSpan{}
}

func (o *testObserver) Counter(name string) observability.Counter {
	return &testCounter{observer: o, name: name}
}

func (o *testObserver) Histogram(_ string) observability.Histogram { return &testHistogram{} }

func (o *testObserver) Trace(_ context.Context, _ string, _ ...observability.Attribute) {}
func (o *testObserver) Debug(_ context.Context, _ string, _ ...observability.Attribute) {}
func (o *testObserver) Info(_ context.Context, _ string, _ ...observability.Attribute)  {}
func (o *testObserver) Warn(_ context.Context, _ string, _ ...observability.Attribute)  {}
func (o *testObserver) Error(_ context.Context, _ string, _ ...observability.Attribute) {}

func (o *testObserver) counterValue(name string) int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counters[name]
}

type testSpan struct{}

func (s *testSpan) End()                                                 {}
func (s *testSpan) SetAttributes(_ ...observability.Attribute)           {}
func (s *testSpan) SetStatus(_ observability.StatusCode, _ string)       {}
func (s *testSpan) RecordError(_ error)                                  {}
func (s *testSpan) AddEvent(_ string, _ ...observability.Attribute)      {}

type testCounter struct {
	observer *testObserver
	name     string
}

func (c *testCounter) Add(_ context.Context, value int64, _ ...observability.Attribute) {
	c.observer.mu.Lock()
	defer c.observer.mu.Unlock()
	c.observer.counters[c.name] += value
}

type testHistogram struct{}

func (h *testHistogram) Record(_ context.Context, _ float64, _ ...observability.Attribute) {}

// echoInput is the input type for the test tool.
type echoInput struct {
	Text string `json:"text"`
}

func newEchoTool(t *testing.T) tool.GenericTool {
	t.Helper()
	return tool.NewTool("Echo", func(_ context.Context, in echoInput) (string, error) {
		return "echo: " + in.Text, nil
	})
}

func toolCallResponse(callID, toolName, arguments string) *ai.ChatResponse {
	return &ai.ChatResponse{
		FinishReason: "tool_calls",
		ToolCalls: []ai.ToolCall{{
			ID:   callID,
			Type: "function",
			Function: ai.ToolCallFunction{
				Name:      toolName,
				Arguments: arguments,
			},
		}},
	}
}

// ========== Construction tests ==========

// TestNew_NilProvider verifies that New rejects a nil provider.
func TestNew_NilProvider(t *testing.T) {
	_, err := New(nil)
	if err == nil {
		t.Fatal("expected error for nil provider")
	}
}

// TestNew_OptionError verifies that option failures abort construction.
func TestNew_OptionError(t *testing.T) {
	_, err := New(&mockProvider{}, WithTools(nil))
	if err == nil {
		t.Fatal("expected error for nil tool")
	}

	_, err = New(&mockProvider{}, WithMaxToolIterations(0))
	if err == nil {
		t.Fatal("expected error for zero max tool iterations")
	}

	_, err = New(&mockProvider{}, WithMiddlewares(nil))
	if err == nil {
		t.Fatal("expected error for nil middleware")
	}
}

// ========== SendMessage tests ==========

// TestSendMessage_EmptyPrompt verifies the empty prompt guard and that the
// error points the caller at ContinueConversation.
func TestSendMessage_EmptyPrompt(t *testing.T) {
	c, err := New(&mockProvider{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if !strings.Contains(err.Error(), "prompt cannot be empty") {
		t.Errorf("expected 'prompt cannot be empty' in error, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "ContinueConversation()") {
		t.Errorf("expected ContinueConversation() hint in error, got %q", err.Error())
	}
}

// TestSendMessage_Stateless verifies that without memory a single-turn request
// carries exactly the user message.
func TestSendMessage_Stateless(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{{Content: "hi there", FinishReason: "stop"}},
	}
	c, err := New(provider, WithDefaultModel("test-model"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := c.SendMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "hi there" {
		t.Errorf("expected 'hi there', got %q", response.Content)
	}

	request := provider.request(0)
	if request.Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", request.Model)
	}
	if len(request.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(request.Messages))
	}
	if request.Messages[0].Role != ai.RoleUser || request.Messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", request.Messages[0])
	}
}

// TestSendMessage_StatefulMemory verifies that with memory the full history is
// sent and both the prompt and the assistant reply are persisted.
func TestSendMessage_StatefulMemory(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			{Content: "first reply", FinishReason: "stop"},
			{Content: "second reply", FinishReason: "stop"},
		},
	}
	mem := inmemory.New()
	c, err := New(provider, WithMemory(mem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if _, err := c.SendMessage(ctx, "turn one"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.SendMessage(ctx, "turn two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second request carries the full history: user, assistant, user.
	request := provider.request(1)
	if len(request.Messages) != 3 {
		t.Fatalf("expected 3 messages in second request, got %d", len(request.Messages))
	}
	if request.Messages[1].Role != ai.RoleAssistant || request.Messages[1].Content != "first reply" {
		t.Errorf("expected persisted assistant reply, got %+v", request.Messages[1])
	}

	stored, err := mem.AllMessages(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 4 {
		t.Errorf("expected 4 stored messages, got %d", len(stored))
	}
}

// TestSendMessage_MemoryError verifies that memory failures are propagated.
func TestSendMessage_MemoryError(t *testing.T) {
	c, err := New(&mockProvider{}, WithMemory(&errorMemory{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "hello")
	if !errors.Is(err, errMemoryBroken) {
		t.Errorf("expected memory error, got %v", err)
	}
}

// TestSendMessage_SystemBlocks verifies that system blocks are forwarded to the
// provider and take precedence over a plain system prompt.
func TestSendMessage_SystemBlocks(t *testing.T) {
	provider := &mockProvider{}
	c, err := New(provider,
		WithSystemPrompt("ignored"),
		WithSystemBlocks(ai.SystemBlocksOf("core instructions", "reference document")...),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	request := provider.request(0)
	if len(request.System) != 2 {
		t.Fatalf("expected 2 system blocks, got %d", len(request.System))
	}
	if request.System[1].Text != "reference document" {
		t.Errorf("unexpected second block: %q", request.System[1].Text)
	}
	if request.SystemPrompt != "" {
		t.Errorf("expected empty SystemPrompt when blocks are set, got %q", request.SystemPrompt)
	}
}

// TestSendMessage_SystemPrompt verifies the plain system prompt path.
func TestSendMessage_SystemPrompt(t *testing.T) {
	provider := &mockProvider{}
	c, err := New(provider, WithSystemPrompt("be brief"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.request(0).SystemPrompt != "be brief" {
		t.Errorf("expected system prompt to be forwarded, got %q", provider.request(0).SystemPrompt)
	}
}

// TestSendMessage_ProviderError verifies that provider errors are wrapped and
// propagated.
func TestSendMessage_ProviderError(t *testing.T) {
	providerErr := errors.New("upstream down")
	provider := &mockProvider{errs: []error{providerErr}}
	c, err := New(provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "hello")
	if !errors.Is(err, providerErr) {
		t.Errorf("expected provider error, got %v", err)
	}
}

// ========== Tool dispatch tests ==========

// TestSendMessage_ToolDispatch verifies the full tool loop: the tool call is
// executed, its result is appended as a tool message, and the follow-up
// request produces the final answer.
func TestSendMessage_ToolDispatch(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			toolCallResponse("call_1", "Echo", `{"text":"ping"}`),
			{Content: "final answer", FinishReason: "stop"},
		},
	}
	c, err := New(provider, WithTools(newEchoTool(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := c.SendMessage(context.Background(), "use the tool")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "final answer" {
		t.Errorf("expected 'final answer', got %q", response.Content)
	}
	if provider.calls() != 2 {
		t.Fatalf("expected 2 provider calls, got %d", provider.calls())
	}

	// First request advertises the tool.
	first := provider.request(0)
	if len(first.Tools) != 1 || first.Tools[0].Name != "Echo" {
		t.Errorf("expected Echo tool description in request, got %+v", first.Tools)
	}

	// Second request carries the assistant tool call and the tool result.
	second := provider.request(1)
	if len(second.Messages) != 3 {
		t.Fatalf("expected 3 messages in follow-up request, got %d", len(second.Messages))
	}
	toolMessage := second.Messages[2]
	if toolMessage.Role != ai.RoleTool || toolMessage.ToolCallID != "call_1" {
		t.Fatalf("unexpected tool message: %+v", toolMessage)
	}

	var result ai.ToolResult
	if err := json.Unmarshal([]byte(toolMessage.Content), &result); err != nil {
		t.Fatalf("tool message content is not a ToolResult: %v", err)
	}
	if !result.Success {
		t.Errorf("expected successful tool result, got %+v", result)
	}
}

// TestSendMessage_UnknownTool verifies that a call to an unregistered tool is
// answered with an error result instead of failing the conversation.
func TestSendMessage_UnknownTool(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			toolCallResponse("call_1", "DoesNotExist", `{}`),
			{Content: "recovered", FinishReason: "stop"},
		},
	}
	c, err := New(provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := c.SendMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "recovered" {
		t.Errorf("expected 'recovered', got %q", response.Content)
	}

	toolMessage := provider.request(1).Messages[2]
	var result ai.ToolResult
	if err := json.Unmarshal([]byte(toolMessage.Content), &result); err != nil {
		t.Fatalf("tool message content is not a ToolResult: %v", err)
	}
	if result.Success {
		t.Error("expected error result for unknown tool")
	}
	if !strings.Contains(result.Message, "not registered") {
		t.Errorf("expected 'not registered' in message, got %q", result.Message)
	}
}

// TestSendMessage_ToolLoopBound verifies that a model that keeps requesting
// tools is cut off at the iteration bound.
func TestSendMessage_ToolLoopBound(t *testing.T) {
	looping := make([]*ai.ChatResponse, 0, 8)
	for i := 0; i < 8; i++ {
		looping = append(looping, toolCallResponse("call", "Echo", `{"text":"again"}`))
	}
	provider := &mockProvider{responses: looping}
	c, err := New(provider, WithTools(newEchoTool(t)), WithMaxToolIterations(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.SendMessage(context.Background(), "loop forever")
	if err == nil {
		t.Fatal("expected tool loop bound error")
	}
	if !strings.Contains(err.Error(), "exceeded") {
		t.Errorf("expected iteration bound error, got %v", err)
	}
}

// TestSendMessage_ToolMessagesPersisted verifies that with memory enabled the
// assistant tool call and the tool result are stored alongside the final reply.
func TestSendMessage_ToolMessagesPersisted(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			toolCallResponse("call_1", "Echo", `{"text":"ping"}`),
			{Content: "done", FinishReason: "stop"},
		},
	}
	mem := inmemory.New()
	c, err := New(provider, WithMemory(mem), WithTools(newEchoTool(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if _, err := c.SendMessage(ctx, "use the tool"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := mem.AllMessages(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// user, assistant (tool call), tool result, assistant (final).
	if len(stored) != 4 {
		t.Fatalf("expected 4 stored messages, got %d", len(stored))
	}
	if stored[2].Role != ai.RoleTool {
		t.Errorf("expected tool message at index 2, got role %q", stored[2].Role)
	}
}

// ========== ContinueConversation tests ==========

// TestContinueConversation_RequiresMemory verifies the memory guard.
func TestContinueConversation_RequiresMemory(t *testing.T) {
	c, err := New(&mockProvider{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.ContinueConversation(context.Background())
	if err == nil || !strings.Contains(err.Error(), "WithMemory()") {
		t.Errorf("expected WithMemory() hint, got %v", err)
	}
}

// TestContinueConversation_EmptyHistory verifies the empty history guard.
func TestContinueConversation_EmptyHistory(t *testing.T) {
	c, err := New(&mockProvider{}, WithMemory(inmemory.New()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.ContinueConversation(context.Background())
	if err == nil || !strings.Contains(err.Error(), "empty conversation") {
		t.Errorf("expected empty conversation error, got %v", err)
	}
}

// TestContinueConversation_ResendsHistory verifies that the stored history is
// re-sent without a new user message.
func TestContinueConversation_ResendsHistory(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			{Content: "first", FinishReason: "stop"},
			{Content: "continued", FinishReason: "stop"},
		},
	}
	mem := inmemory.New()
	c, err := New(provider, WithMemory(mem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if _, err := c.SendMessage(ctx, "start"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := c.ContinueConversation(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "continued" {
		t.Errorf("expected 'continued', got %q", response.Content)
	}

	// Continuation request carries user + assistant, no extra user message.
	request := provider.request(1)
	if len(request.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(request.Messages))
	}
}

// ========== Cost tracking tests ==========

// TestSendMessage_CostTracker verifies that usage from every provider call in
// the loop is recorded on the attached tracker.
func TestSendMessage_CostTracker(t *testing.T) {
	toolResponse := toolCallResponse("call_1", "Echo", `{"text":"ping"}`)
	toolResponse.Usage = &ai.Usage{InputTokens: 100, OutputTokens: 20, CacheCreationInputTokens: 5000, TotalTokens: 120}

	provider := &mockProvider{
		responses: []*ai.ChatResponse{
			toolResponse,
			{
				Content:      "done",
				FinishReason: "stop",
				Usage:        &ai.Usage{InputTokens: 21, OutputTokens: 305, CacheReadInputTokens: 75324, TotalTokens: 326},
			},
		},
	}
	tracker := cost.NewTracker(cost.ModelSonnet45)
	c, err := New(provider, WithTools(newEchoTool(t)), WithCostTracker(tracker))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "use the tool"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tracker.Calls() != 2 {
		t.Errorf("expected 2 tracked calls, got %d", tracker.Calls())
	}
	total := tracker.Total()
	if total.InputTokens != 121 {
		t.Errorf("expected 121 input tokens, got %d", total.InputTokens)
	}
	if total.CacheReadInputTokens != 75324 {
		t.Errorf("expected 75324 cache read tokens, got %d", total.CacheReadInputTokens)
	}
	if total.CacheCreationInputTokens != 5000 {
		t.Errorf("expected 5000 cache creation tokens, got %d", total.CacheCreationInputTokens)
	}
}

// ========== Middleware tests ==========

// TestSendMessage_MiddlewareOrder verifies that middlewares run in the order
// given, first one outermost.
func TestSendMessage_MiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next SendFunc) SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				order = append(order, name+"-before")
				response, err := next(ctx, request)
				order = append(order, name+"-after")
				return response, err
			}
		}
	}

	c, err := New(&mockProvider{}, WithMiddlewares(tag("outer"), tag("inner")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"outer-before", "inner-before", "inner-after", "outer-after"}
	if len(order) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

// ========== Observability tests ==========

// TestSendMessage_Observability verifies that the observer middleware records
// a span, the request counter, and the cache token counters.
func TestSendMessage_Observability(t *testing.T) {
	provider := &mockProvider{
		responses: []*ai.ChatResponse{{
			Content:      "ok",
			FinishReason: "stop",
			Usage:        &ai.Usage{InputTokens: 21, OutputTokens: 305, CacheReadInputTokens: 75324, TotalTokens: 326},
		}},
	}
	observer := newTestObserver()
	c, err := New(provider, WithObserver(observer), WithDefaultModel("test-model"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(observer.spans) != 1 || observer.spans[0] != observability.SpanClientSendMessage {
		t.Errorf("expected one %q span, got %v", observability.SpanClientSendMessage, observer.spans)
	}
	if got := observer.counterValue(observability.MetricClientRequestCount); got != 1 {
		t.Errorf("expected request count 1, got %d", got)
	}
	if got := observer.counterValue(observability.MetricClientTokensCacheRead); got != 75324 {
		t.Errorf("expected 75324 cache read tokens, got %d", got)
	}
	if got := observer.counterValue(observability.MetricClientTokensCacheWrite); got != 0 {
		t.Errorf("expected 0 cache write tokens, got %d", got)
	}
}
