package middleware

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/carlmei/promptcache/core/client"
	"github.com/carlmei/promptcache/providers/ai"
)

// RetryConfig tunes the retry middleware. Zero fields take the documented
// defaults when the middleware is built.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first failure, so 3
	// means at most 4 provider calls. Default 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier:
	// backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff).
	// Default 2.0.
	BackoffFactor float64

	// JitterFraction adds random noise in [0, JitterFraction*backoff] so
	// concurrent clients do not retry in lockstep. Default 0.1.
	JitterFraction float64

	// RetryableFunc decides whether an error is worth retrying. The default
	// is [RetryableStatus] applied to the HTTP status carried in provider
	// errors.
	RetryableFunc func(error) bool
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
	if c.JitterFraction == 0 {
		c.JitterFraction = 0.1
	}
	if c.RetryableFunc == nil {
		c.RetryableFunc = func(err error) bool {
			status, ok := StatusFromError(err)
			return ok && RetryableStatus(status)
		}
	}
}

// statusMarker is the prefix the HTTP layer puts in front of the status code
// when a request comes back non-2xx.
const statusMarker = "non-2xx status "

// StatusFromError extracts the HTTP status code from a provider error.
// Provider errors carry the code as text ("non-2xx status 429: ..."), so this
// parses the digits after the marker rather than substring-matching the whole
// message, which would false-positive on codes appearing in response bodies.
func StatusFromError(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	message := err.Error()
	idx := strings.Index(message, statusMarker)
	if idx < 0 {
		return 0, false
	}

	rest := message[idx+len(statusMarker):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	status, convErr := strconv.Atoi(rest[:end])
	if convErr != nil {
		return 0, false
	}
	return status, true
}

// RetryableStatus reports whether an HTTP status is transient for the
// Messages API: 429 (rate limited), 500, 502, 503, and 529 (overloaded).
// Everything else, including 400 and 401, fails permanently.
func RetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 529:
		return true
	}
	return false
}

// NewRetryMiddleware returns a [client.Middleware] that retries failed sends
// with exponential backoff and jitter. Retries stop early on non-retryable
// errors and on context cancellation. When all attempts fail, the returned
// error wraps both [ErrRetryExhausted] and the last provider error.
func NewRetryMiddleware(config RetryConfig) client.Middleware {
	config.applyDefaults()

	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					select {
					case <-ctx.Done():
						return nil, ctx.Err()
					case <-time.After(config.backoff(attempt - 1)):
					}
				}

				response, err := next(ctx, request)
				if err == nil {
					return response, nil
				}
				if !config.RetryableFunc(err) {
					return nil, err
				}
				lastErr = err
			}

			return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}

// backoff returns the wait before retry number attempt (0-indexed), jittered.
func (c RetryConfig) backoff(attempt int) time.Duration {
	base := float64(c.InitialBackoff) * math.Pow(c.BackoffFactor, float64(attempt))
	base = math.Min(base, float64(c.MaxBackoff))

	jitter := base * c.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter
	return time.Duration(base + jitter)
}
