package agent

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hupe1980/agentcore/behavior"
	"github.com/hupe1980/agentcore/config"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/engine"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/memory"
	"github.com/hupe1980/agentcore/metrics"
	"github.com/hupe1980/agentcore/telemetry"
	"github.com/hupe1980/agentcore/tool"
)

// Options configures an Agent instance.
type Options struct {
	// Config is the hot-swappable runtime section. Defaults to
	// config.DefaultAgentConfig().
	Config config.AgentConfig

	// Memory is the agent's memory store. Defaults to a bounded in-memory
	// store.
	Memory memory.Store

	// Logger receives runtime logs. Defaults to slog when the config enables
	// logging, otherwise to a no-op logger.
	Logger logging.Logger

	// OnStart runs during startup, after behaviors are initialized and
	// before the state flips to RUNNING. An error aborts the start and
	// leaves the agent in ERROR.
	OnStart func() error

	// OnStop runs during shutdown, after behaviors are cleaned up. An error
	// leaves the agent in ERROR.
	OnStop func() error
}

// Agent is the runtime around a decision engine: a lifecycle state machine
// owning one memory store, an ordered behavior chain, a tool registry and a
// dedicated scheduler. Inbound messages flow through the behavior chain and
// fall back to the engine; goals are planned and executed by the engine
// against the registered tools.
//
// All exported methods are safe for concurrent use. Lifecycle and processing
// operations return futures and never block the caller.
type Agent struct {
	id     string
	name   string
	engine engine.Engine
	logger logging.Logger
	memory memory.Store

	state  atomic.Int32
	config atomic.Pointer[config.AgentConfig]

	mu         sync.RWMutex
	behaviors  []behavior.Behavior
	tools      []tool.Tool
	scheduler  *core.Scheduler
	loopCancel context.CancelFunc

	onStart func() error
	onStop  func() error
}

// Agents expose the runtime view behaviors receive at initialization.
var _ behavior.Runtime = (*Agent)(nil)

// New creates an agent in state CREATED with a fresh identity. The decision
// engine handles messages no behavior claims and executes goals.
func New(name string, eng engine.Engine, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Config: config.DefaultAgentConfig(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Memory == nil {
		opts.Memory = memory.NewInMemoryStore()
	}

	if opts.Logger == nil {
		if opts.Config.EnableLogging {
			opts.Logger = logging.NewDefaultSlogLogger()
		} else {
			opts.Logger = logging.NoOpLogger{}
		}
	}

	a := &Agent{
		id:      uuid.NewString(),
		name:    name,
		engine:  eng,
		logger:  opts.Logger,
		memory:  opts.Memory,
		onStart: opts.OnStart,
		onStop:  opts.OnStop,
	}

	a.state.Store(int32(core.StateCreated))

	cfg := opts.Config
	a.config.Store(&cfg)

	return a
}

// ID returns the agent's immutable identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's human-readable name.
func (a *Agent) Name() string { return a.name }

// State returns the agent's current lifecycle state.
func (a *Agent) State() core.State {
	return core.State(a.state.Load())
}

// Memory returns the agent's memory store.
func (a *Agent) Memory() memory.Store { return a.memory }

// Config returns a snapshot of the hot-swappable runtime configuration.
func (a *Agent) Config() config.AgentConfig {
	return *a.config.Load()
}

// UpdateConfig swaps the runtime configuration without a restart. The
// execution loop picks up the new interval on its next cycle.
func (a *Agent) UpdateConfig(cfg config.AgentConfig) {
	a.config.Store(&cfg)
	a.logger.Debug("config updated", "agent", a.name, "execution_interval", cfg.ExecutionInterval)
}

func (a *Agent) setState(s core.State) {
	a.state.Store(int32(s))
}

func (a *Agent) casState(from, to core.State) bool {
	return a.state.CompareAndSwap(int32(from), int32(to))
}

// Start transitions the agent from CREATED or STOPPED to RUNNING: it creates
// a fresh scheduler, initializes behaviors in registration order, runs the
// startup hook and launches the execution loop. From any other state the
// returned future fails with an INVALID_STATE error. A failing behavior or
// hook leaves the agent in ERROR and fails the future.
func (a *Agent) Start() *core.Future[struct{}] {
	if !a.casState(core.StateCreated, core.StateStarting) &&
		!a.casState(core.StateStopped, core.StateStarting) {
		return core.Rejected[struct{}](core.NewInvalidStateError("start", a.State()))
	}

	a.logger.Info("agent starting", "agent", a.name, "id", a.id)

	sched := core.NewScheduler(a.logger)

	a.mu.Lock()
	a.scheduler = sched
	a.mu.Unlock()

	return core.Run(sched, func() (struct{}, error) {
		if err := a.startup(); err != nil {
			a.setState(core.StateError)
			sched.Close()
			a.logger.Error("agent failed to start", "agent", a.name, "error", err)

			return struct{}{}, err
		}

		return struct{}{}, nil
	})
}

func (a *Agent) startup() error {
	for _, b := range a.Behaviors() {
		if err := b.Initialize(a); err != nil {
			return core.WrapError(core.CodeInternal, fmt.Sprintf("initialize behavior %s", b.Name()), err)
		}
	}

	if a.onStart != nil {
		if err := a.onStart(); err != nil {
			return core.WrapError(core.CodeInternal, "startup hook", err)
		}
	}

	a.setState(core.StateRunning)
	metrics.AgentStarted()
	a.launchLoop()

	a.logger.Info("agent started", "agent", a.name, "id", a.id)

	return nil
}

// Stop transitions a RUNNING or PAUSED agent to STOPPED: behaviors are
// cleaned up in registration order, the shutdown hook runs and the scheduler
// is closed afterwards, even on failure. From any other state Stop is a
// silent no-op returning a completed future. A failing cleanup or hook
// leaves the agent in ERROR and fails the future.
func (a *Agent) Stop() *core.Future[struct{}] {
	if !a.casState(core.StateRunning, core.StateStopping) &&
		!a.casState(core.StatePaused, core.StateStopping) {
		return core.Resolved(struct{}{})
	}

	a.logger.Info("agent stopping", "agent", a.name, "id", a.id)

	a.mu.Lock()
	cancel := a.loopCancel
	a.loopCancel = nil
	sched := a.scheduler
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	return core.Run(sched, func() (struct{}, error) {
		defer sched.Close()
		defer metrics.AgentStopped()

		if err := a.shutdown(); err != nil {
			a.setState(core.StateError)
			a.logger.Error("agent failed to stop cleanly", "agent", a.name, "error", err)

			return struct{}{}, err
		}

		a.setState(core.StateStopped)
		a.logger.Info("agent stopped", "agent", a.name, "id", a.id)

		return struct{}{}, nil
	})
}

func (a *Agent) shutdown() error {
	for _, b := range a.Behaviors() {
		if err := b.Cleanup(); err != nil {
			return core.WrapError(core.CodeInternal, fmt.Sprintf("cleanup behavior %s", b.Name()), err)
		}
	}

	if a.onStop != nil {
		if err := a.onStop(); err != nil {
			return core.WrapError(core.CodeInternal, "shutdown hook", err)
		}
	}

	return nil
}

// Pause suspends the execution loop by moving RUNNING to PAUSED. Messages
// and goals are rejected while paused. From any other state the returned
// future fails with an INVALID_STATE error.
func (a *Agent) Pause() *core.Future[struct{}] {
	if !a.casState(core.StateRunning, core.StatePaused) {
		return core.Rejected[struct{}](core.NewInvalidStateError("pause", a.State()))
	}

	a.mu.Lock()
	cancel := a.loopCancel
	a.loopCancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	a.logger.Info("agent paused", "agent", a.name, "id", a.id)

	return core.Resolved(struct{}{})
}

// Resume moves PAUSED back to RUNNING and relaunches the execution loop.
// From any other state the returned future fails with an INVALID_STATE
// error.
func (a *Agent) Resume() *core.Future[struct{}] {
	if !a.casState(core.StatePaused, core.StateRunning) {
		return core.Rejected[struct{}](core.NewInvalidStateError("resume", a.State()))
	}

	a.launchLoop()

	a.logger.Info("agent resumed", "agent", a.name, "id", a.id)

	return core.Resolved(struct{}{})
}

// ProcessMessage dispatches a message through the behavior chain on the
// agent's scheduler and never blocks the caller. The message is persisted to
// memory first; the first behavior that can handle it and produces a reply
// wins, otherwise the decision engine answers. Panics and errors on the
// dispatch path resolve to an error-reply message, never a failed future.
// The future fails with NOT_RUNNING when the agent is not RUNNING.
func (a *Agent) ProcessMessage(ctx context.Context, msg core.Message) *core.Future[core.Message] {
	a.mu.RLock()
	sched := a.scheduler
	a.mu.RUnlock()

	if sched == nil || sched.Closed() {
		return core.Rejected[core.Message](core.NewNotRunningError(a.State()))
	}

	return core.Run(sched, func() (core.Message, error) {
		return a.processMessage(ctx, msg)
	})
}

func (a *Agent) processMessage(ctx context.Context, msg core.Message) (core.Message, error) {
	if state := a.State(); state != core.StateRunning {
		return core.Message{}, core.NewNotRunningError(state)
	}

	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "agent.process_message",
		append(telemetry.AgentAttributes(a.id, a.name), telemetry.MessageAttributes(msg)...)...)
	defer span.End()

	a.memory.StoreMessage(msg)

	reply, outcome := a.dispatch(ctx, msg)

	span.SetAttributes(attribute.String(telemetry.AttrDispatchOutcome, outcome))
	metrics.RecordMessage(a.name, string(msg.Type), outcome, time.Since(start))

	return reply, nil
}

// dispatch walks the behavior chain in registration order. Behaviors whose
// CanHandle returns true get Process; the first non-nil reply wins. When no
// behavior answers, the decision engine does. Every panic or error becomes
// an error-reply so dispatch itself never fails.
func (a *Agent) dispatch(ctx context.Context, msg core.Message) (reply core.Message, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic while processing message",
				"agent", a.name, "message_id", msg.ID, "panic", fmt.Sprintf("%v", r), "stack", string(debug.Stack()))

			reply = msg.Reply(fmt.Sprintf("Error processing message: %v", r))
			outcome = metrics.OutcomeError
		}
	}()

	for _, b := range a.Behaviors() {
		if !b.CanHandle(msg) {
			continue
		}

		behaviorReply, err := b.Process(ctx, msg)
		if err != nil {
			a.logger.Error("behavior failed to process message",
				"agent", a.name, "behavior", b.Name(), "message_id", msg.ID, "error", err)

			return msg.Reply("Error processing message: " + err.Error()), metrics.OutcomeError
		}

		if behaviorReply != nil {
			a.logger.Debug("message handled by behavior", "agent", a.name, "behavior", b.Name(), "message_id", msg.ID)

			return *behaviorReply, metrics.OutcomeBehavior
		}
	}

	engineReply, err := a.engine.ProcessMessage(ctx, msg)
	if err != nil {
		a.logger.Error("engine failed to process message", "agent", a.name, "message_id", msg.ID, "error", err)

		return msg.Reply("Error processing message: " + err.Error()), metrics.OutcomeError
	}

	return engineReply, metrics.OutcomeEngine
}

// ExecuteGoal hands a natural-language goal to the decision engine on the
// agent's scheduler and never blocks the caller. The goal is persisted to
// memory first and executed against a snapshot of the registered tools. The
// future carries the execution log; it fails with NOT_RUNNING when the agent
// is not RUNNING.
func (a *Agent) ExecuteGoal(ctx context.Context, goal string) *core.Future[string] {
	a.mu.RLock()
	sched := a.scheduler
	a.mu.RUnlock()

	if sched == nil || sched.Closed() {
		return core.Rejected[string](core.NewNotRunningError(a.State()))
	}

	return core.Run(sched, func() (string, error) {
		return a.executeGoal(ctx, goal)
	})
}

func (a *Agent) executeGoal(ctx context.Context, goal string) (string, error) {
	if state := a.State(); state != core.StateRunning {
		return "", core.NewNotRunningError(state)
	}

	start := time.Now()
	tools := a.Tools()

	ctx, span := telemetry.StartSpan(ctx, "agent.execute_goal",
		append(telemetry.AgentAttributes(a.id, a.name), telemetry.GoalAttributes(goal, len(tools))...)...)
	defer span.End()

	a.memory.StoreGoal(goal)

	result, err := a.engine.ExecuteGoal(ctx, goal, tools)
	if err != nil {
		metrics.RecordGoal(a.name, metrics.StatusError, time.Since(start))
		a.logger.Error("goal execution failed", "agent", a.name, "goal", goal, "error", err)

		return "", err
	}

	metrics.RecordGoal(a.name, metrics.StatusSuccess, time.Since(start))

	return result, nil
}

// AddBehavior appends a behavior to the chain. On a RUNNING agent the
// behavior is initialized immediately; an initialization error is returned
// but the behavior stays registered, matching startup semantics where
// registration precedes initialization.
func (a *Agent) AddBehavior(b behavior.Behavior) error {
	a.mu.Lock()
	a.behaviors = append(a.behaviors, b)
	a.mu.Unlock()

	a.logger.Debug("behavior added", "agent", a.name, "behavior", b.Name())

	if a.State() == core.StateRunning {
		if err := b.Initialize(a); err != nil {
			return core.WrapError(core.CodeInternal, fmt.Sprintf("initialize behavior %s", b.Name()), err)
		}
	}

	return nil
}

// RemoveBehavior removes the first behavior with the given name and cleans
// it up. It returns false when no behavior matches. Cleanup errors are
// logged, not returned; the behavior is gone either way.
func (a *Agent) RemoveBehavior(name string) bool {
	a.mu.Lock()

	var removed behavior.Behavior

	for i, b := range a.behaviors {
		if b.Name() == name {
			removed = b
			a.behaviors = append(a.behaviors[:i], a.behaviors[i+1:]...)

			break
		}
	}
	a.mu.Unlock()

	if removed == nil {
		return false
	}

	if err := removed.Cleanup(); err != nil {
		a.logger.Warn("behavior cleanup failed", "agent", a.name, "behavior", name, "error", err)
	}

	a.logger.Debug("behavior removed", "agent", a.name, "behavior", name)

	return true
}

// Behaviors returns a snapshot of the behavior chain in registration order.
func (a *Agent) Behaviors() []behavior.Behavior {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := make([]behavior.Behavior, len(a.behaviors))
	copy(snapshot, a.behaviors)

	return snapshot
}

// AddTool registers a tool for goal execution. Tools registered later win on
// duplicate names.
func (a *Agent) AddTool(t tool.Tool) {
	a.mu.Lock()
	a.tools = append(a.tools, t)
	a.mu.Unlock()

	a.logger.Debug("tool added", "agent", a.name, "tool", t.Name())
}

// Tools returns a snapshot of the registered tools in registration order.
func (a *Agent) Tools() []tool.Tool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := make([]tool.Tool, len(a.tools))
	copy(snapshot, a.tools)

	return snapshot
}

// launchLoop starts one execution loop tied to a fresh cancellable context.
// Pause and Stop cancel that context, so a superseded loop can never outlive
// its lifecycle window even if the state flips back to RUNNING in between.
func (a *Agent) launchLoop() {
	ctx, cancel := context.WithCancel(context.Background())

	a.mu.Lock()
	a.loopCancel = cancel
	sched := a.scheduler
	a.mu.Unlock()

	if err := sched.Submit(func() { a.runLoop(ctx) }); err != nil {
		cancel()
		a.logger.Error("failed to launch execution loop", "agent", a.name, "error", err)
	}
}

// runLoop is the proactive execution loop: while the agent is RUNNING it
// ticks every active behavior in registration order, then suspends for the
// configured interval. A failing or panicking behavior never stops the pass;
// the loop moves on to the next behavior.
func (a *Agent) runLoop(ctx context.Context) {
	a.logger.Debug("execution loop started", "agent", a.name)

	for ctx.Err() == nil && a.State() == core.StateRunning {
		for _, b := range a.Behaviors() {
			if ctx.Err() != nil || a.State() != core.StateRunning {
				break
			}

			if !b.IsActive() {
				continue
			}

			a.tick(ctx, b)
		}

		interval := a.Config().ExecutionInterval
		if interval <= 0 {
			interval = time.Second
		}

		select {
		case <-ctx.Done():
		case <-time.After(interval):
		}
	}

	a.logger.Debug("execution loop stopped", "agent", a.name)
}

func (a *Agent) tick(ctx context.Context, b behavior.Behavior) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("behavior tick panicked",
				"agent", a.name, "behavior", b.Name(), "panic", fmt.Sprintf("%v", r), "stack", string(debug.Stack()))
			metrics.RecordBehaviorTick(a.name, b.Name(), metrics.StatusError)
		}
	}()

	if err := b.Tick(ctx); err != nil {
		a.logger.Error("behavior tick failed", "agent", a.name, "behavior", b.Name(), "error", err)
		metrics.RecordBehaviorTick(a.name, b.Name(), metrics.StatusError)

		return
	}

	metrics.RecordBehaviorTick(a.name, b.Name(), metrics.StatusSuccess)
}
