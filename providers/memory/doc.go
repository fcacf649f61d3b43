// Package memory defines the Provider interface for conversation history.
// The client appends user, assistant, and tool messages through it and
// replays the stored history on each turn. Write operations do not return
// errors; read operations do, so database-backed stores can surface
// failures. The in-process implementation lives in the inmemory subpackage.
package memory
