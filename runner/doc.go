// Package runner implements the multi-agent coordination layer.
//
// The Runner is an in-process registry of named agents. It starts and stops
// the whole fleet concurrently, routes messages and goals to individual
// agents by name, and keeps registration order stable for deterministic
// iteration. It deliberately adds no network transport; agents in one Runner
// share a process and communicate through the routing helpers.
//
// In short, the Runner owns:
//   - Agent registration and lookup by name
//   - Fleet lifecycle (StartAll / StopAll, concurrent with error collection)
//   - Message routing and goal routing to named agents
package runner
