package memory

import "github.com/hupe1980/agentcore/core"

// Store is the working memory owned by a single agent: a bounded message
// history, an unbounded goal log, and a key/value scratch space. All
// operations are process-local and infallible; implementations must be safe
// for concurrent use.
type Store interface {
	// StoreMessage appends a message to the history, evicting the oldest
	// entries once the history exceeds its capacity.
	StoreMessage(msg core.Message)

	// RecentMessages returns the last limit messages in arrival order. Fewer
	// are returned when the history is shorter; limit <= 0 yields an empty
	// slice.
	RecentMessages(limit int) []core.Message

	// StoreGoal appends a goal to the goal log. The log is unbounded.
	StoreGoal(goal string)

	// Goals returns a copy of all stored goals in insertion order.
	Goals() []string

	// Put stores a key/value pair, overwriting any previous value.
	Put(key string, value any)

	// Get returns the value for key and whether it was present.
	Get(key string) (any, bool)

	// Delete removes key and reports whether it was present.
	Delete(key string) bool

	// Clear removes all messages, goals and key/value pairs.
	Clear()

	// Stats reports counts and an approximate footprint of the store.
	Stats() Stats
}

// Stats summarizes the contents of a Store. EstimatedBytes is a rough,
// consistent estimate rather than an exact measurement.
type Stats struct {
	MessageCount   int
	GoalCount      int
	KeyValueCount  int
	EstimatedBytes int64
}
