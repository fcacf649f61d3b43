package inmemory

import (
	"context"
	"sync"

	"github.com/carlmei/promptcache/providers/ai"
	"github.com/carlmei/promptcache/providers/memory"
	"github.com/carlmei/promptcache/providers/observability"
)

// History is a concurrency-safe, process-local message store. An RWMutex
// guards the slice; reads dominate in conversation loops, so readers never
// block each other.
type History struct {
	mu       sync.RWMutex
	messages []ai.Message
}

var _ memory.Provider = (*History)(nil)

// New returns an empty [History] ready for use.
func New() *History {
	return &History{messages: []ai.Message{}}
}

// AppendMessage stores a copy of message at the end of the history. Nil
// messages are ignored. When a span is present in ctx the append is recorded
// as an event and the running message count becomes a span attribute.
func (h *History) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageLength, len(message.Content)),
		)
	}

	h.mu.Lock()
	h.messages = append(h.messages, *message)
	total := len(h.messages)
	h.mu.Unlock()

	if span != nil {
		span.SetAttributes(observability.Int(observability.AttrMemoryTotalMessages, total))
	}
}

// ClearMessages empties the history. The slice capacity is kept so a
// conversation restarted on the same store does not reallocate immediately.
func (h *History) ClearMessages(ctx context.Context) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	h.mu.Lock()
	h.messages = h.messages[:0]
	h.mu.Unlock()
}

// Count reports the number of stored messages. The error is always nil; it
// exists for [memory.Provider] implementations backed by real storage.
func (h *History) Count(_ context.Context) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages), nil
}

// AllMessages returns a copy of the full history, oldest first.
func (h *History) AllMessages(_ context.Context) ([]ai.Message, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return copyMessages(h.messages), nil
}

// LastMessages returns a copy of up to n trailing messages. Zero or negative
// n yields an empty slice.
func (h *History) LastMessages(_ context.Context, n int) ([]ai.Message, error) {
	if n <= 0 {
		return []ai.Message{}, nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.messages) {
		n = len(h.messages)
	}
	return copyMessages(h.messages[len(h.messages)-n:]), nil
}

// PopLastMessage removes and returns the most recent message, or nil when
// the history is empty.
func (h *History) PopLastMessage(_ context.Context) (*ai.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.messages) == 0 {
		return nil, nil
	}
	last := h.messages[len(h.messages)-1]
	h.messages = h.messages[:len(h.messages)-1]
	return &last, nil
}

// FilterByRole returns a copy of the messages with the given role, in order.
func (h *History) FilterByRole(_ context.Context, role ai.MessageRole) ([]ai.Message, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matched := []ai.Message{}
	for _, message := range h.messages {
		if message.Role == role {
			matched = append(matched, message)
		}
	}
	return matched, nil
}

// copyMessages returns an independent, never-nil copy of messages so callers
// cannot mutate the store through a returned slice.
func copyMessages(messages []ai.Message) []ai.Message {
	out := make([]ai.Message, len(messages))
	copy(out, messages)
	return out
}
