// Package slogobs implements [observability.Provider] on top of the standard
// library's log/slog. It routes span events, metrics, and log records through
// a single structured logger, giving lightweight observability — including
// per-request cache-read/cache-write token counts — without any external
// telemetry dependency.
package slogobs
