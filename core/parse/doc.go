// Package parse decodes model-produced text into typed Go values. It exists
// for tool-call arguments: the payload is supposed to be JSON matching the
// tool's input schema, but models wrap it in markdown fences, use single
// quotes, drop closing braces, or emit schema-shaped value wrappers. The
// generic [As] function applies fence stripping, JSON repair, and wrapper
// flattening before giving up with an error.
package parse
