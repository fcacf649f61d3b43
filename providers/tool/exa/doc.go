// Package exa wraps the Exa AI-native search API as a callable tool.
// [NewExaSearchTool] returns semantic web search with results rendered both
// as structured hits and as a compact summary the model can read directly.
// The EXA_API_KEY environment variable must be set before use.
package exa
