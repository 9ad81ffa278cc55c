// Package memory provides the agent's working memory: a capacity-bounded
// message history with FIFO eviction, an unbounded goal log, and a key/value
// scratch space. The Store interface is defined here alongside the default
// InMemoryStore so alternative bounded stores can be swapped in at wiring
// time.
//
// Rationale: memory is an owned, process-local component of a single agent
// (persistence is out of scope), so operations are infallible and the
// interface stays free of error returns.
package memory
