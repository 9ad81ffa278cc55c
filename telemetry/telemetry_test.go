package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hupe1980/agentcore/core"
)

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}

	return m
}

// -------------------- Init Tests --------------------

func TestInit_ExportsSpansToWriter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer

	shutdown, err := Init("agentcore-test", "0.0.1", func(o *Options) {
		o.Writer = &buf
		o.PrettyPrint = false
		o.BatchTimeout = 10 * time.Millisecond
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "test.operation", attribute.String(AttrAgentName, "tester"))
	span.End()

	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "test.operation")
	assert.Contains(t, out, "agentcore-test")
	assert.Contains(t, out, AttrAgentName)
}

func TestTracer_UsableWithoutInit(t *testing.T) {
	// The global provider defaults to no-op spans, so instrumented code may
	// run before Init without guarding.
	ctx, span := StartSpan(context.Background(), "test.noop")
	require.NotNil(t, span)
	require.NotNil(t, ctx)

	span.End()
}

// -------------------- Attribute Tests --------------------

func TestAgentAttributes(t *testing.T) {
	m := attrMap(AgentAttributes("agent-1", "Helper"))

	assert.Equal(t, "agent-1", m[AttrAgentID].AsString())
	assert.Equal(t, "Helper", m[AttrAgentName].AsString())
}

func TestMessageAttributes(t *testing.T) {
	msg := core.NewMessage("user", core.MessageTypeRequest, "hello", func(o *core.MessageOptions) {
		o.Priority = core.PriorityHigh
	})

	m := attrMap(MessageAttributes(msg))

	assert.Equal(t, msg.ID, m[AttrMessageID].AsString())
	assert.Equal(t, "request", m[AttrMessageType].AsString())
	assert.Equal(t, "high", m[AttrMessagePriority].AsString())
	assert.Equal(t, "user", m[AttrMessageSender].AsString())
}

func TestMessageAttributes_OmitsEmptySender(t *testing.T) {
	msg := core.NewMessage("", core.MessageTypeNotification, "fyi")

	m := attrMap(MessageAttributes(msg))

	_, ok := m[AttrMessageSender]
	assert.False(t, ok)
}

func TestGoalAttributes(t *testing.T) {
	m := attrMap(GoalAttributes("compute the answer", 3))

	assert.Equal(t, "compute the answer", m[AttrGoal].AsString())
	assert.Equal(t, int64(3), m[AttrGoalTools].AsInt64())
}

func TestGoalAttributes_TruncatesLongGoal(t *testing.T) {
	goal := strings.Repeat("g", 500)

	m := attrMap(GoalAttributes(goal, 0))

	got := m[AttrGoal].AsString()
	assert.Len(t, got, maxGoalAttrLen+len("..."))
	assert.True(t, strings.HasSuffix(got, "..."))
}
