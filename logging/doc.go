// Package logging defines how agentcore components report what they are
// doing. A four-method Logger interface (Debug, Info, Warn, Error) is all the
// runtime, engine and behaviors require, so callers can inject any structured
// backend.
//
// The package ships three implementations:
//
//   - SlogAdapter, a thin bridge to Go's log/slog
//   - RuntimeLogger, a slog-backed logger with agent and goal scoped context
//   - NoOpLogger, which discards everything (tests, embedded use)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	a := agent.New("assistant", eng, func(o *agent.Options) {
//		o.Logger = logger
//	})
package logging
