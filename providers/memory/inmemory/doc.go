// Package inmemory stores chat history in a slice guarded by an RWMutex.
// It implements [memory.Provider] for single-process use where persistence
// across restarts is not needed. [New] returns a ready-to-use [History].
package inmemory
