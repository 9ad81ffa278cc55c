// Package agent implements the autonomous agent runtime: a lifecycle state
// machine wrapped around a decision engine, a behavior chain, a tool registry
// and a bounded memory store. The package focuses on three concerns:
//
//  1. Lifecycle management (Start/Stop/Pause/Resume via atomic state transitions)
//  2. Reactive message dispatch (behavior chain with engine fallback)
//  3. Proactive execution (periodic behavior ticks on a dedicated scheduler)
//
// Design principles:
//   - Non-blocking API: lifecycle and processing operations return futures
//   - Isolation: a failing behavior never takes down the loop or the agent
//   - Single writer per transition: lifecycle moves are compare-and-swap
//   - Hot-swappable configuration: interval and flags change without restart
//
// Execution model:
//   - Start initializes behaviors in registration order, runs the startup
//     hook, flips to RUNNING and launches the execution loop
//   - Inbound messages walk the behavior chain; the first behavior that can
//     handle the message and returns a reply wins, otherwise the decision
//     engine answers
//   - Goals are planned and executed by the engine against registered tools
//
// Model bindings, tool implementations and the decision engine itself live
// in their own packages; the agent only orchestrates them.
package agent
