package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Model          = (*MockModel)(nil)
	_ FunctionCaller = (*MockModel)(nil)
	_ Model          = (*RateLimited)(nil)
	_ FunctionCaller = (*RateLimited)(nil)
)

// -------------------- Parameters Tests --------------------

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	assert.Equal(t, 0.7, p.Temperature)
	assert.Equal(t, 1000, p.MaxTokens)
	assert.Equal(t, 1.0, p.TopP)
	assert.Zero(t, p.FrequencyPenalty)
	assert.Zero(t, p.PresencePenalty)
	assert.Empty(t, p.Stop)
}

func TestResolveParameters(t *testing.T) {
	p := ResolveParameters(func(p *Parameters) {
		p.Temperature = 0.3
		p.MaxTokens = 42
	})
	assert.Equal(t, 0.3, p.Temperature)
	assert.Equal(t, 42, p.MaxTokens)
	// Untouched fields keep their defaults
	assert.Equal(t, 1.0, p.TopP)
}

// -------------------- ChatMessage Tests --------------------

func TestChatMessageConstructors(t *testing.T) {
	assert.Equal(t, ChatMessage{Role: RoleSystem, Content: "s"}, SystemMessage("s"))
	assert.Equal(t, ChatMessage{Role: RoleUser, Content: "u"}, UserMessage("u"))
	assert.Equal(t, ChatMessage{Role: RoleAssistant, Content: "a"}, AssistantMessage("a"))
	assert.Equal(t, ChatMessage{Role: RoleFunction, Content: "out", Name: "fn"}, FunctionMessage("fn", "out"))
}

// -------------------- MockModel Tests --------------------

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hello", "world")

	resp, err := m.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModel_DefaultEcho(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	resp, err := m.Generate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", resp.Content)
}

func TestMockModel_QueueBeatsCanned(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("p", "canned")
	m.EnqueueResponse("first", "second")

	r1, _ := m.Generate(context.Background(), "p")
	r2, _ := m.Generate(context.Background(), "p")
	r3, _ := m.Generate(context.Background(), "p")

	assert.Equal(t, "first", r1.Content)
	assert.Equal(t, "second", r2.Content)
	assert.Equal(t, "canned", r3.Content)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	boom := errors.New("boom")
	m.FailWith(boom)

	_, err := m.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, boom)

	m.FailWith(nil)
	_, err = m.Generate(context.Background(), "p")
	assert.NoError(t, err)
}

func TestMockModel_ConverseUsesLastMessage(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("latest", "reply")

	resp, err := m.Converse(context.Background(), []ChatMessage{
		SystemMessage("sys"),
		UserMessage("older"),
		UserMessage("latest"),
	})
	require.NoError(t, err)
	assert.Equal(t, "reply", resp.Content)
}

func TestMockModel_RecordsPromptsAndParameters(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	_, err := m.Generate(context.Background(), "p1", func(p *Parameters) {
		p.Temperature = 0.3
	})
	require.NoError(t, err)
	_, err = m.Generate(context.Background(), "p2")
	require.NoError(t, err)

	assert.Equal(t, 2, m.Calls())
	assert.Equal(t, []string{"p1", "p2"}, m.Prompts())
	// Last call used defaults again
	assert.Equal(t, 0.7, m.LastParameters().Temperature)
}

func TestMockModel_ContextCancelled(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

// -------------------- RateLimited Tests --------------------

func TestRateLimited_Delegates(t *testing.T) {
	inner := NewMockModel("test-model", "mock")
	inner.AddResponse("p", "r")

	limited := NewRateLimited(inner, func(o *RateLimitedOptions) {
		o.RPS = 1000
		o.Burst = 10
	})

	resp, err := limited.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "r", resp.Content)
	assert.Equal(t, inner.Info(), limited.Info())

	resp, err = limited.Converse(context.Background(), []ChatMessage{UserMessage("p")})
	require.NoError(t, err)
	assert.Equal(t, "r", resp.Content)

	resp, err = limited.GenerateWithFunctions(context.Background(), []ChatMessage{UserMessage("p")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "r", resp.Content)
}

func TestRateLimited_WaitCancelled(t *testing.T) {
	inner := NewMockModel("test-model", "mock")
	// Burst 1: the first call drains the bucket, the second must wait ~1m.
	limited := NewRateLimited(inner, func(o *RateLimitedOptions) {
		o.RPS = 1.0 / 60.0
		o.Burst = 1
	})

	_, err := limited.Generate(context.Background(), "p1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = limited.Generate(ctx, "p2")
	assert.Error(t, err)
	assert.Equal(t, 1, inner.Calls()) // second call never reached the model
}
