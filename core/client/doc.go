// Package client provides the orchestration layer between raw LLM provider calls
// and higher-level conversation flows. It manages conversation state, tool
// registration and dispatch, observability, and cost tracking in a single
// Client value.
//
// The primary entry point is [New], which accepts an [ai.Provider] and a set of
// functional options (e.g. [WithMemory], [WithTools], [WithSystemBlocks]).
// [Client.SendMessage] sends one user prompt and runs the tool loop to
// completion; [Client.ContinueConversation] re-sends the stored history, which
// is how agent flows resume after out-of-band history edits.
package client
