package memory

import (
	"context"

	"github.com/carlmei/promptcache/providers/ai"
)

// Provider stores and retrieves the message history of a conversation.
//
// Write methods accept a context so implementations can record observability
// events or talk to external stores; read methods return errors for the same
// reason, even though the in-memory implementation never fails.
type Provider interface {
	// AppendMessage stores message at the end of the history. Nil messages
	// are ignored.
	AppendMessage(ctx context.Context, message *ai.Message)

	// AllMessages returns a copy of the full history in insertion order.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// LastMessages returns up to the last n messages.
	LastMessages(ctx context.Context, n int) ([]ai.Message, error)

	// PopLastMessage removes and returns the most recent message, or nil
	// when the history is empty.
	PopLastMessage(ctx context.Context) (*ai.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// FilterByRole returns a copy of all messages with the given role.
	FilterByRole(ctx context.Context, role ai.MessageRole) ([]ai.Message, error)

	// ClearMessages removes all messages.
	ClearMessages(ctx context.Context)
}
