// Package middleware provides built-in middleware implementations for the
// promptcache client. Each middleware is constructed via a New* function that
// returns a [client.Middleware] ready to be passed to [client.WithMiddlewares].
//
// # Available Middleware
//
//   - [NewRetryMiddleware]: Retries failed provider calls with exponential backoff
//     and jitter. Useful for transient HTTP 429 / 5xx errors.
//
//   - [NewTimeoutMiddleware]: Adds a per-request deadline via context.WithTimeout,
//     ensuring that a stalled provider call does not block the caller indefinitely.
//
//   - [NewLoggingMiddleware]: Emits structured slog log entries before and after
//     every provider call, with three verbosity levels (Minimal, Standard, Verbose).
//
// # Usage
//
//	import (
//	    "log/slog"
//	    "time"
//
//	    "github.com/carlmei/promptcache/core/client"
//	    "github.com/carlmei/promptcache/core/client/middleware"
//	)
//
//	c, err := client.New(provider,
//	    client.WithMiddlewares(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 3}),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute in the order they are listed, first one outermost.
package middleware
