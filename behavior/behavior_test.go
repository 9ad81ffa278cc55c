package behavior

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/config"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/memory"
)

// stubRuntime is a minimal agent view for initializing behaviors in tests.
type stubRuntime struct {
	id    string
	name  string
	state core.State
	store memory.Store
}

func newStubRuntime() *stubRuntime {
	return &stubRuntime{
		id:    "agent-1",
		name:  "test-agent",
		state: core.StateRunning,
		store: memory.NewInMemoryStore(),
	}
}

func (s *stubRuntime) ID() string                 { return s.id }
func (s *stubRuntime) Name() string               { return s.name }
func (s *stubRuntime) State() core.State          { return s.state }
func (s *stubRuntime) Memory() memory.Store       { return s.store }
func (s *stubRuntime) Config() config.AgentConfig { return config.DefaultAgentConfig() }

// -------------------- BaseBehavior Tests --------------------

func TestBaseBehavior_Defaults(t *testing.T) {
	base := NewBaseBehavior("noop", 3)

	assert.Equal(t, "noop", base.Name())
	assert.Equal(t, 3, base.Priority())
	assert.True(t, base.IsActive())
	assert.False(t, base.CanHandle(core.NewMessage("s", core.MessageTypeRequest, "hi")))

	reply, err := base.Process(context.Background(), core.NewMessage("s", core.MessageTypeRequest, "hi"))
	require.NoError(t, err)
	assert.Nil(t, reply)

	assert.NoError(t, base.Tick(context.Background()))
	assert.NoError(t, base.Cleanup())
}

func TestBaseBehavior_SetActive(t *testing.T) {
	base := NewBaseBehavior("toggle", 0)

	base.SetActive(false)
	assert.False(t, base.IsActive())

	base.SetActive(true)
	assert.True(t, base.IsActive())
}

func TestBaseBehavior_InitializeStoresRuntime(t *testing.T) {
	base := NewBaseBehavior("init", 0)
	rt := newStubRuntime()

	require.NoError(t, base.Initialize(rt))
	assert.Same(t, Runtime(rt), base.Runtime())
}

// -------------------- FunctionBehavior Tests --------------------

func TestFunctionBehavior_Hooks(t *testing.T) {
	var (
		initialized bool
		ticked      int
		cleaned     bool
	)

	b := NewFunctionBehavior("greeter", func(o *FunctionBehaviorOptions) {
		o.Priority = 7
		o.OnInit = func(_ Runtime) error {
			initialized = true
			return nil
		}
		o.CanHandle = func(msg core.Message) bool {
			return msg.Type == core.MessageTypeRequest
		}
		o.Process = func(_ context.Context, msg core.Message) (*core.Message, error) {
			reply := msg.Reply("hello")
			return &reply, nil
		}
		o.Tick = func(_ context.Context) error {
			ticked++
			return nil
		}
		o.OnCleanup = func() error {
			cleaned = true
			return nil
		}
	})

	require.NoError(t, b.Initialize(newStubRuntime()))
	assert.True(t, initialized)
	assert.Equal(t, 7, b.Priority())

	msg := core.NewMessage("caller", core.MessageTypeRequest, "hi")
	assert.True(t, b.CanHandle(msg))
	assert.False(t, b.CanHandle(core.NewMessage("caller", core.MessageTypeEvent, "hi")))

	reply, err := b.Process(context.Background(), msg)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "hello", reply.Content)
	assert.Equal(t, core.MessageTypeReply, reply.Type)

	require.NoError(t, b.Tick(context.Background()))
	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, 2, ticked)

	require.NoError(t, b.Cleanup())
	assert.True(t, cleaned)
}

func TestFunctionBehavior_NilHooksAreNoOps(t *testing.T) {
	b := NewFunctionBehavior("empty")

	require.NoError(t, b.Initialize(newStubRuntime()))
	assert.False(t, b.CanHandle(core.NewMessage("s", core.MessageTypeRequest, "x")))

	reply, err := b.Process(context.Background(), core.NewMessage("s", core.MessageTypeRequest, "x"))
	require.NoError(t, err)
	assert.Nil(t, reply)

	assert.NoError(t, b.Tick(context.Background()))
	assert.NoError(t, b.Cleanup())
}

func TestFunctionBehavior_InitHookError(t *testing.T) {
	boom := errors.New("init failed")

	b := NewFunctionBehavior("broken", func(o *FunctionBehaviorOptions) {
		o.OnInit = func(_ Runtime) error { return boom }
	})

	assert.ErrorIs(t, b.Initialize(newStubRuntime()), boom)
}

// -------------------- ScheduledBehavior Tests --------------------

func TestNewScheduledBehavior_InvalidExpression(t *testing.T) {
	_, err := NewScheduledBehavior("bad", "not a cron expr", func(_ context.Context) error { return nil })

	require.Error(t, err)
	assert.True(t, core.IsCode(err, core.CodeInvalidArgument))
}

func TestScheduledBehavior_RunsWhenDue(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 30, 0, time.UTC)

	runs := 0
	b, err := NewScheduledBehavior("minutely", "* * * * *", func(_ context.Context) error {
		runs++
		return nil
	}, func(o *ScheduledBehaviorOptions) {
		o.Now = func() time.Time { return now }
	})
	require.NoError(t, err)
	require.NoError(t, b.Initialize(newStubRuntime()))

	// Not yet due: the next minute boundary is 30s away.
	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, 0, runs)

	// Cross the boundary: exactly one run.
	now = now.Add(31 * time.Second)
	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, 1, runs)

	// Same instant again: schedule already advanced, no double firing.
	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, 1, runs)

	// Next boundary fires again.
	now = now.Add(time.Minute)
	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, 2, runs)
}

func TestScheduledBehavior_TaskErrorPropagates(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	boom := errors.New("task failed")

	b, err := NewScheduledBehavior("failing", "@every 1m", func(_ context.Context) error {
		return boom
	}, func(o *ScheduledBehaviorOptions) {
		o.Now = func() time.Time { return now }
	})
	require.NoError(t, err)
	require.NoError(t, b.Initialize(newStubRuntime()))

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, b.Tick(context.Background()), boom)
}

func TestScheduledBehavior_NextRun(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	b, err := NewScheduledBehavior("hourly", "@hourly", func(_ context.Context) error { return nil },
		func(o *ScheduledBehaviorOptions) {
			o.Now = func() time.Time { return now }
		})
	require.NoError(t, err)

	assert.True(t, b.NextRun().IsZero())

	require.NoError(t, b.Initialize(newStubRuntime()))
	assert.Equal(t, time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC), b.NextRun())
}
