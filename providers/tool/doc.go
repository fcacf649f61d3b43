// Package tool turns typed Go functions into tools a model can call. A
// [Tool] pairs a function with a name, a description, and JSON schemas
// derived from its input and output types; [NewTool] builds one, and
// [Catalog] keeps a case-insensitive, concurrency-safe registry whose
// [Catalog.Descriptions] feed the tools field of a chat request.
//
// Argument JSON from the model is decoded leniently, so fenced or slightly
// malformed payloads still reach the tool function as typed values.
package tool
