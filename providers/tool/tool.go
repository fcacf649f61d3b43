package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carlmei/promptcache/core/cost"
	"github.com/carlmei/promptcache/core/parse"
	"github.com/carlmei/promptcache/internal/jsonschema"
	"github.com/carlmei/promptcache/providers/ai"
	"github.com/carlmei/promptcache/providers/observability"
)

// Tool binds a typed Go function to the name, description, and JSON schemas
// that advertise it to a model. The schemas for I and O are derived from the
// types at construction; the function itself sees decoded values, never raw
// argument JSON. Build one with [NewTool].
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
	// Metrics carries optional cost and performance metadata. It stays off
	// the wire; cost tracking reads it through GetMetrics.
	Metrics *cost.ToolMetrics
}

// GenericTool erases the type parameters of [Tool] so a catalog can hold,
// dispatch, and describe tools of mixed input/output types.
type GenericTool interface {
	// ToolInfo returns the metadata advertised to the model.
	ToolInfo() ai.ToolDescription

	// Call runs the tool on JSON-encoded arguments and returns JSON-encoded
	// output.
	Call(ctx context.Context, inputJson string) (string, error)

	// GetMetrics returns the tool's cost metadata, or nil.
	GetMetrics() *cost.ToolMetrics
}

type funcToolOptions struct {
	Description string
	Metrics     *cost.ToolMetrics
}

// WithDescription sets the description the model reads when deciding whether
// to invoke the tool.
func WithDescription(description string) func(*funcToolOptions) {
	return func(o *funcToolOptions) {
		o.Description = description
	}
}

// WithMetrics attaches cost and performance metadata.
func WithMetrics(metrics cost.ToolMetrics) func(*funcToolOptions) {
	return func(o *funcToolOptions) {
		o.Metrics = &metrics
	}
}

// NewTool builds a [Tool] around function, deriving the input and output
// schemas from I and O:
//
//	searchTool := tool.NewTool("search", searchFunc,
//	    tool.WithDescription("Searches the web for a query."),
//	    tool.WithMetrics(cost.ToolMetrics{Amount: 0.001, Currency: "USD"}),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(*funcToolOptions)) *Tool[I, O] {
	applied := &funcToolOptions{}
	for _, option := range options {
		option(applied)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: applied.Description,
		Parameters:  jsonschema.For[I](),
		Output:      jsonschema.For[O](),
		Function:    function,
		Metrics:     applied.Metrics,
	}
}

// ToolInfo returns the [ai.ToolDescription] sent to the provider: name,
// description, and parameter schema.
func (t *Tool[I, O]) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// GetMetrics returns the tool's cost metadata, or nil when none was set.
func (t *Tool[I, O]) GetMetrics() *cost.ToolMetrics {
	return t.Metrics
}

// Call decodes inputJson into I (leniently, via [parse.As]), runs the
// function, and returns the output as JSON. When a span is present in ctx,
// execution start/end events and the outcome are recorded on it.
func (t *Tool[I, O]) Call(ctx context.Context, inputJson string) (string, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, inputJson),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	input, err := parse.As[I](inputJson)
	if err != nil {
		recordToolError(span, err)
		return "", err
	}

	start := time.Now()
	output, err := t.Function(ctx, input)
	duration := time.Since(start)
	if err != nil {
		recordToolError(span, err, observability.Duration(observability.AttrToolDuration, duration))
		return "", err
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		recordToolError(span, err)
		return "", err
	}

	if span != nil {
		span.SetAttributes(t.successAttrs(string(encoded), duration)...)
	}
	return string(encoded), nil
}

func recordToolError(span observability.Span, err error, extra ...observability.Attribute) {
	if span == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(append(extra, observability.String(observability.AttrToolError, err.Error()))...)
}

// successAttrs collects the span attributes for a completed call, including
// cost metadata when the tool carries any.
func (t *Tool[I, O]) successAttrs(output string, duration time.Duration) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.String(observability.AttrToolOutput, output),
		observability.Duration(observability.AttrToolDuration, duration),
	}

	if t.Metrics != nil {
		attrs = append(attrs,
			observability.Float64("tool.cost.amount", t.Metrics.Amount),
			observability.String("tool.cost.currency", t.Metrics.Currency),
		)
		if t.Metrics.CostDescription != "" {
			attrs = append(attrs, observability.String("tool.cost.description", t.Metrics.CostDescription))
		}
		if t.Metrics.Accuracy > 0 {
			attrs = append(attrs, observability.Float64("tool.metrics.accuracy", t.Metrics.Accuracy))
		}
		if t.Metrics.AverageDurationInMillis > 0 {
			attrs = append(attrs, observability.Int64("tool.metrics.avg_duration_ms", t.Metrics.AverageDurationInMillis))
		}
	}
	return attrs
}
