// Package core provides the foundational domain types used across AgentCore.
// It defines the shared abstractions for:
//
//   - Messages (immutable communication records with priorities and reply links)
//   - Lifecycle states (the agent state machine vocabulary)
//   - Futures (non-blocking results for every public runtime operation)
//   - Schedulers (the per-agent worker pool that lifecycle tasks run on)
//   - Coded errors (the runtime error taxonomy)
//
// The package intentionally keeps implementation concerns (concrete agents,
// decision engines, stores) out of scope, exposing small types so that custom
// components can be added without introducing dependency cycles.
package core
