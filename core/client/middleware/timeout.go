package middleware

import (
	"context"
	"time"

	"github.com/carlmei/promptcache/core/client"
	"github.com/carlmei/promptcache/providers/ai"
)

// NewTimeoutMiddleware creates a Middleware that enforces a per-request
// deadline on every provider call. The implementation wraps the context with
// context.WithTimeout and defers cancel(), so the context is automatically
// canceled once the provider returns or the deadline expires.
//
// If the caller supplies a context that already has a shorter deadline, that
// shorter deadline wins as per normal context semantics.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
