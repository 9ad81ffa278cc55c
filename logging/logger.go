package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"runtime"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug enables verbose diagnostic output.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo reports normal operational events.
	LogLevelInfo
	// LogLevelWarn reports recoverable anomalies.
	LogLevelWarn
	// LogLevelError reports failures.
	LogLevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the human readable level name.
func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelError {
		return "UNKNOWN"
	}

	return levelNames[l]
}

// slogLevel converts the level into its slog equivalent.
func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config string to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface for AgentCore.
// Custom implementations can be supplied wherever a Logger is accepted; the
// built-in adapters cover the common cases.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Compile-time interface checks.
var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*RuntimeLogger)(nil)
	_ Logger = NoOpLogger{}
)

// SlogAdapter exposes a *slog.Logger through the Logger interface.
type SlogAdapter struct {
	base *slog.Logger
}

// Debug logs at slog debug level.
func (a *SlogAdapter) Debug(msg string, args ...any) { a.base.Debug(msg, args...) }

// Info logs at slog info level.
func (a *SlogAdapter) Info(msg string, args ...any) { a.base.Info(msg, args...) }

// Warn logs at slog warn level.
func (a *SlogAdapter) Warn(msg string, args ...any) { a.base.Warn(msg, args...) }

// Error logs at slog error level.
func (a *SlogAdapter) Error(msg string, args ...any) { a.base.Error(msg, args...) }

// NewSlogAdapter wraps an existing *slog.Logger as a Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{base: logger}
}

// NewDefaultSlogLogger wraps slog.Default() as a Logger.
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// RuntimeLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. With* methods return copies, so a shared base
// logger can be specialized per agent or per goal without locking.
type RuntimeLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]any
	component string
	agentID   string
	agentName string
}

// LoggerConfig configures construction of a RuntimeLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	AgentID     string
	AgentName   string
	CustomAttrs map[string]any
}

// DefaultLoggerConfig returns an info level JSON configuration writing to stdout.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LogLevelInfo,
		Format:      "json",
		Output:      os.Stdout,
		AddSource:   true,
		CustomAttrs: map[string]any{},
	}
}

// NewLogger builds a RuntimeLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *RuntimeLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel(), AddSource: cfg.AddSource}

	var handler slog.Handler

	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	rl := &RuntimeLogger{
		logger:    slog.New(handler),
		level:     cfg.Level,
		context:   map[string]any{},
		component: cfg.Component,
		agentID:   cfg.AgentID,
		agentName: cfg.AgentName,
	}

	for k, v := range cfg.CustomAttrs {
		rl.context[k] = v
	}

	return rl
}

func (l *RuntimeLogger) clone() *RuntimeLogger {
	nl := *l

	nl.context = maps.Clone(l.context)
	if nl.context == nil {
		nl.context = map[string]any{}
	}

	return &nl
}

// WithContext returns a copy carrying an extra key/value attribute on every entry.
func (l *RuntimeLogger) WithContext(key string, value any) *RuntimeLogger {
	nl := l.clone()
	nl.context[key] = value

	return nl
}

// WithComponent sets the logical component (agent, engine, runner, etc.).
func (l *RuntimeLogger) WithComponent(c string) *RuntimeLogger {
	nl := l.clone()
	nl.component = c

	return nl
}

// WithAgent attaches agent identity to every log entry.
func (l *RuntimeLogger) WithAgent(id, name string) *RuntimeLogger {
	nl := l.clone()
	nl.agentID = id
	nl.agentName = name

	return nl
}

// WithGoal attaches the active goal to every log entry.
func (l *RuntimeLogger) WithGoal(goal string) *RuntimeLogger {
	return l.WithContext("goal", goal)
}

// baseAttrs renders the logger's identity and accumulated context as slog
// attributes. Empty identity fields are omitted.
func (l *RuntimeLogger) baseAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+3)

	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}

	if l.agentID != "" {
		attrs = append(attrs, slog.String("agent_id", l.agentID))
	}

	if l.agentName != "" {
		attrs = append(attrs, slog.String("agent_name", l.agentName))
	}

	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}

	return attrs
}

// log emits msg if the level clears the configured threshold. Args are
// printf-style and only formatted when present.
func (l *RuntimeLogger) log(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	l.logger.LogAttrs(context.Background(), level.slogLevel(), msg, l.baseAttrs()...)
}

// Debug logs a printf-formatted message at debug level.
func (l *RuntimeLogger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs a printf-formatted message at info level.
func (l *RuntimeLogger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a printf-formatted message at warn level.
func (l *RuntimeLogger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs a printf-formatted message at error level.
func (l *RuntimeLogger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

// ErrorWithStack logs an error together with a stack snapshot of the calling
// goroutine.
func (l *RuntimeLogger) ErrorWithStack(err error, msg string, args ...any) {
	if l.level > LogLevelError {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	attrs := append(l.baseAttrs(),
		slog.String("error", err.Error()),
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("stack_trace", string(buf[:n])),
	)

	l.logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

// logOutcome emits a completed/failed message pair at info or error level.
// The error, when present, is appended as an attribute.
func (l *RuntimeLogger) logOutcome(success bool, okMsg, failMsg string, err error, attrs []slog.Attr) {
	level := slog.LevelInfo
	msg := okMsg

	if !success {
		level = slog.LevelError
		msg = failMsg
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogToolCall records the outcome and latency of a tool invocation.
func (l *RuntimeLogger) LogToolCall(tool string, dur time.Duration, success bool, err error) {
	attrs := append(l.baseAttrs(),
		slog.String("tool_name", tool),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	)

	l.logOutcome(success, "Tool execution completed", "Tool execution failed", err, attrs)
}

// LogModelCall records model call latency, token usage and success.
func (l *RuntimeLogger) LogModelCall(model string, tokens int, dur time.Duration, success bool, err error) {
	attrs := append(l.baseAttrs(),
		slog.String("model", model),
		slog.Int("token_count", tokens),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	)

	l.logOutcome(success, "Model call completed", "Model call failed", err, attrs)
}

// LogGoalExecution records aggregate goal run metrics.
func (l *RuntimeLogger) LogGoalExecution(goal string, steps int, dur time.Duration, success bool, err error) {
	attrs := append(l.baseAttrs(),
		slog.String("goal", goal),
		slog.Int("step_count", steps),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	)

	l.logOutcome(success, "Goal execution completed", "Goal execution failed", err, attrs)
}

// StartTimer captures the current time and returns a func that logs the
// elapsed duration.
func (l *RuntimeLogger) StartTimer(op string) func() {
	start := time.Now()

	return func() {
		attrs := append(l.baseAttrs(),
			slog.String("operation", op),
			slog.Duration("duration", time.Since(start)),
		)

		l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Operation completed", attrs...)
	}
}

// LogPerformance records named metrics for an operation at info level.
func (l *RuntimeLogger) LogPerformance(op string, dur time.Duration, metrics map[string]any) {
	attrs := append(l.baseAttrs(),
		slog.String("operation", op),
		slog.Duration("duration", dur),
	)

	for k, v := range metrics {
		attrs = append(attrs, slog.Any("metric_"+k, v))
	}

	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Performance metrics", attrs...)
}

// NoOpLogger discards everything. It is the default wherever logging is
// optional.
type NoOpLogger struct{}

// Debug is a no-op.
func (NoOpLogger) Debug(string, ...any) {}

// Info is a no-op.
func (NoOpLogger) Info(string, ...any) {}

// Warn is a no-op.
func (NoOpLogger) Warn(string, ...any) {}

// Error is a no-op.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger builds a RuntimeLogger for the given level, output format
// and source annotation flag.
func NewSlogLogger(level LogLevel, format string, addSource bool) *RuntimeLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.AddSource = addSource

	if format != "" {
		cfg.Format = format
	}

	return NewLogger(cfg)
}
