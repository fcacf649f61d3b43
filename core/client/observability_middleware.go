package client

import (
	"context"

	"github.com/carlmei/promptcache/internal/utils"
	"github.com/carlmei/promptcache/providers/ai"
	"github.com/carlmei/promptcache/providers/observability"
)

// NewObservabilityMiddleware creates a Middleware that provides distributed
// tracing spans, structured metrics, and log events for every LLM request.
//
// The middleware records a span from the moment the request enters the chain to
// when the response (or error) is returned. Both the span and the observer are
// injected into the context before calling next, so that provider
// implementations can retrieve them via [observability.SpanFromContext] and
// [observability.ObserverFromContext].
//
// The middleware is automatically prepended to the chain by [New] when
// [WithObserver] is provided, making it the outermost wrapper. It therefore
// observes the final outcome after any retry or timeout middleware, which is
// the correct behavior for end-to-end request metrics.
func NewObservabilityMiddleware(observer observability.Provider, defaultModel string) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			model := effectiveModel(request.Model, defaultModel)

			// 1. Start span and enrich context so downstream providers can attach child spans.
			ctx, span := observer.StartSpan(ctx, observability.SpanClientSendMessage,
				observability.String(observability.AttrLLMModel, model),
			)
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			// 2. Emit a debug log at request start.
			observer.Debug(ctx, "llm send",
				observability.String(observability.AttrLLMModel, model),
				observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
				observability.Int(observability.AttrRequestSystemBlocksCount, len(request.System)),
			)

			// 3. Time the provider call.
			timer := utils.NewTimer()
			response, err := next(ctx, request)
			timer.Stop()

			// 4. Handle error path.
			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "llm send failed")
				span.End()

				observer.Error(ctx, "llm send failed",
					observability.Error(err),
					observability.Duration(observability.AttrDuration, timer.GetDuration()),
					observability.String(observability.AttrLLMModel, model),
				)

				observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
					observability.String(observability.AttrStatus, "error"),
					observability.String(observability.AttrLLMModel, model),
				)

				return nil, err
			}

			// 5. Record success metrics and log.
			recordObsSuccess(ctx, span, observer, response, timer, model)

			return response, nil
		}
	}
}

// recordObsSuccess writes all success-path observability data: duration
// histogram, request counter, token counters (including the prompt cache
// read/write split), span attributes, a structured INFO log, and then ends
// the span.
func recordObsSuccess(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	response *ai.ChatResponse,
	timer *utils.Timer,
	model string,
) {
	elapsed := timer.GetDuration()

	// Metrics
	observer.Histogram(observability.MetricClientRequestDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrLLMModel, model),
	)

	observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrLLMModel, model),
	)

	// Log attributes (always present)
	logAttrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, model),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		observability.Duration(observability.AttrDuration, elapsed),
		observability.Int(observability.AttrClientToolCalls, len(response.ToolCalls)),
	}

	// Token counters and span attributes (when usage is available)
	if response.Usage != nil {
		usage := response.Usage

		observer.Counter(observability.MetricClientTokensTotal).Add(ctx, int64(usage.TotalTokens),
			observability.String(observability.AttrLLMModel, model),
		)
		observer.Counter(observability.MetricClientTokensCacheRead).Add(ctx, int64(usage.CacheReadInputTokens),
			observability.String(observability.AttrLLMModel, model),
		)
		observer.Counter(observability.MetricClientTokensCacheWrite).Add(ctx, int64(usage.CacheCreationInputTokens),
			observability.String(observability.AttrLLMModel, model),
		)

		span.SetAttributes(
			observability.Int(observability.AttrLLMTokensInput, usage.InputTokens),
			observability.Int(observability.AttrLLMTokensOutput, usage.OutputTokens),
			observability.Int(observability.AttrLLMTokensCacheWrite, usage.CacheCreationInputTokens),
			observability.Int(observability.AttrLLMTokensCacheRead, usage.CacheReadInputTokens),
			observability.Int(observability.AttrLLMTokensTotal, usage.TotalTokens),
		)

		logAttrs = append(logAttrs,
			observability.Int(observability.AttrLLMTokensInput, usage.InputTokens),
			observability.Int(observability.AttrLLMTokensOutput, usage.OutputTokens),
			observability.Int(observability.AttrLLMTokensCacheWrite, usage.CacheCreationInputTokens),
			observability.Int(observability.AttrLLMTokensCacheRead, usage.CacheReadInputTokens),
		)
	}

	// Add tool call names if present
	if len(response.ToolCalls) > 0 {
		toolNames := make([]string, len(response.ToolCalls))
		for i, toolCall := range response.ToolCalls {
			toolNames[i] = toolCall.Function.Name
		}

		logAttrs = append(logAttrs, observability.StringSlice("tool_calls", toolNames))
	}

	// Add response content preview if present
	if response.Content != "" {
		logAttrs = append(logAttrs,
			observability.String("response", utils.TruncateString(response.Content, 100)),
		)
	}

	observer.Info(ctx, "llm send completed", logAttrs...)

	span.SetStatus(observability.StatusOK, "success")
	span.End()
}

// effectiveModel returns the request-level model when set, falling back to the
// client's configured default. Both being empty is valid (provider chooses).
func effectiveModel(requestModel, defaultModel string) string {
	if requestModel != "" {
		return requestModel
	}

	return defaultModel
}
