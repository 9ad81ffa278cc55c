package memory

import (
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// DefaultCapacity is the message history bound used when no capacity is
// configured.
const DefaultCapacity = 1000

// Per-entry size estimates used by Stats. Deliberately coarse; they only need
// to be consistent so trends are comparable.
const (
	messageEstimateBytes  = 200
	goalEstimateBytes     = 50
	keyValueEstimateBytes = 100
)

// InMemoryStoreOptions configures an InMemoryStore.
type InMemoryStoreOptions struct {
	// Capacity bounds the message history. Values < 1 fall back to
	// DefaultCapacity.
	Capacity int
}

// InMemoryStore is a process-local Store. The message history is a FIFO ring:
// appends beyond capacity evict the oldest entries one at a time. Goals and
// key/value pairs are unbounded.
//
// Concurrency: guarded by a single RWMutex; reads return copies so callers
// can never observe or cause mutation of internal state.
type InMemoryStore struct {
	capacity int

	mu       sync.RWMutex
	messages []core.Message
	goals    []string
	kv       map[string]any
}

// NewInMemoryStore creates an in-memory store with the default capacity.
func NewInMemoryStore(optFns ...func(o *InMemoryStoreOptions)) *InMemoryStore {
	opts := InMemoryStoreOptions{
		Capacity: DefaultCapacity,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Capacity < 1 {
		opts.Capacity = DefaultCapacity
	}

	return &InMemoryStore{
		capacity: opts.Capacity,
		kv:       make(map[string]any),
	}
}

// Capacity returns the configured message history bound.
func (s *InMemoryStore) Capacity() int {
	return s.capacity
}

// StoreMessage appends msg and evicts from the front until the history is
// back at capacity.
func (s *InMemoryStore) StoreMessage(msg core.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	for len(s.messages) > s.capacity {
		s.messages = s.messages[1:]
	}
}

// RecentMessages returns the last limit messages in arrival order.
func (s *InMemoryStore) RecentMessages(limit int) []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || len(s.messages) == 0 {
		return []core.Message{}
	}

	start := len(s.messages) - limit
	if start < 0 {
		start = 0
	}

	out := make([]core.Message, len(s.messages)-start)
	copy(out, s.messages[start:])

	return out
}

// StoreGoal appends goal to the goal log.
func (s *InMemoryStore) StoreGoal(goal string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = append(s.goals, goal)
}

// Goals returns a copy of the goal log in insertion order.
func (s *InMemoryStore) Goals() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.goals))
	copy(out, s.goals)

	return out
}

// Put stores a key/value pair, last write wins.
func (s *InMemoryStore) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv[key] = value
}

// Get returns the value for key and whether it was present.
func (s *InMemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.kv[key]

	return v, ok
}

// Delete removes key and reports whether it was present.
func (s *InMemoryStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.kv[key]
	delete(s.kv, key)

	return ok
}

// Clear removes all messages, goals and key/value pairs. The capacity is
// unchanged.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	s.goals = nil
	s.kv = make(map[string]any)
}

// Stats reports counts plus an estimated footprint (200 bytes per message,
// 50 per goal, 100 per key/value pair).
func (s *InMemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		MessageCount:   len(s.messages),
		GoalCount:      len(s.goals),
		KeyValueCount:  len(s.kv),
		EstimatedBytes: int64(len(s.messages))*messageEstimateBytes + int64(len(s.goals))*goalEstimateBytes + int64(len(s.kv))*keyValueEstimateBytes,
	}
}
