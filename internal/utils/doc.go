// Package utils holds shared low-level helpers: synchronous JSON-over-HTTP
// round-trips ([DoPostSync], [DoGetSync]), wall-clock timing ([Timer]), and
// string truncation for log previews ([TruncateString]).
package utils
