package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLevel("bogus"))
}

func TestRuntimeLogger_ContextualAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	logger = logger.WithComponent("agent").WithAgent("id-1", "assistant")

	logger.Info("started")

	out := buf.String()
	assert.Contains(t, out, `"component":"agent"`)
	assert.Contains(t, out, `"agent_id":"id-1"`)
	assert.Contains(t, out, `"agent_name":"assistant"`)
	assert.Contains(t, out, "started")
}

func TestRuntimeLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestRuntimeLogger_LogToolCall(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogToolCall("calculator", 5*time.Millisecond, false, errors.New("divide by zero"))

	out := buf.String()
	assert.Contains(t, out, "Tool execution failed")
	assert.Contains(t, out, "calculator")
	assert.Contains(t, out, "divide by zero")
}

func TestLogLevel_String(t *testing.T) {
	for lvl, want := range map[LogLevel]string{
		LogLevelDebug: "DEBUG",
		LogLevelInfo:  "INFO",
		LogLevelWarn:  "WARN",
		LogLevelError: "ERROR",
		LogLevel(42):  "UNKNOWN",
	} {
		if got := lvl.String(); got != strings.TrimSpace(want) {
			t.Fatalf("level %d: got %q want %q", lvl, got, want)
		}
	}
}
