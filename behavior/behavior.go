package behavior

import (
	"context"
	"sync"

	"github.com/hupe1980/agentcore/config"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/memory"
)

// Runtime is the view of the owning agent handed to a behavior at
// initialization time. It exposes identity, lifecycle state, memory and the
// live configuration without granting behaviors control over the agent's
// lifecycle.
type Runtime interface {
	// ID returns the owning agent's immutable identifier.
	ID() string

	// Name returns the owning agent's human-readable name.
	Name() string

	// State returns the owning agent's current lifecycle state.
	State() core.State

	// Memory returns the owning agent's memory store.
	Memory() memory.Store

	// Config returns a snapshot of the owning agent's runtime configuration.
	Config() config.AgentConfig
}

// Behavior is a pluggable unit of agent functionality. Behaviors react to
// inbound messages through CanHandle/Process and perform proactive work
// through Tick, which the agent's execution loop invokes every cycle while
// the behavior is active.
//
// Message dispatch walks behaviors in registration order: the first behavior
// whose CanHandle returns true and whose Process returns a non-nil reply
// wins. Priority is descriptive metadata and does not influence dispatch
// order.
type Behavior interface {
	// Name returns the behavior's unique name within its agent.
	Name() string

	// Priority returns the behavior's declared priority. Higher values
	// indicate more important behaviors.
	Priority() int

	// Initialize prepares the behavior for use by the given agent. It is
	// called during agent startup, or immediately when the behavior is added
	// to an already running agent.
	Initialize(rt Runtime) error

	// CanHandle reports whether the behavior wants to process the message.
	CanHandle(msg core.Message) bool

	// Process handles a message and optionally produces a reply. Returning
	// a nil message passes the message on to the next behavior in the chain.
	Process(ctx context.Context, msg core.Message) (*core.Message, error)

	// Tick performs one cycle of proactive work. It is invoked by the
	// execution loop on every pass while the behavior is active.
	Tick(ctx context.Context) error

	// Cleanup releases any resources held by the behavior. It is called
	// during agent shutdown, or immediately when the behavior is removed
	// from a running agent.
	Cleanup() error

	// IsActive reports whether the execution loop should tick this behavior.
	IsActive() bool

	// SetActive enables or disables proactive ticking.
	SetActive(active bool)
}

// BaseBehavior supplies name/priority bookkeeping, the active flag and no-op
// defaults for the full Behavior contract. Embed it in concrete behaviors and
// override the methods that matter.
type BaseBehavior struct {
	name     string
	priority int

	mu     sync.RWMutex
	active bool
	rt     Runtime
}

// NewBaseBehavior constructs an active BaseBehavior for embedding.
func NewBaseBehavior(name string, priority int) BaseBehavior {
	return BaseBehavior{
		name:     name,
		priority: priority,
		active:   true,
	}
}

// Name returns the behavior's name.
func (b *BaseBehavior) Name() string { return b.name }

// Priority returns the behavior's declared priority.
func (b *BaseBehavior) Priority() int { return b.priority }

// Initialize stores the owning agent view for later use via Runtime.
func (b *BaseBehavior) Initialize(rt Runtime) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rt = rt

	return nil
}

// Runtime returns the owning agent view, or nil before initialization.
func (b *BaseBehavior) Runtime() Runtime {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.rt
}

// CanHandle reports false; reactive behaviors override it.
func (b *BaseBehavior) CanHandle(_ core.Message) bool { return false }

// Process returns no reply; reactive behaviors override it.
func (b *BaseBehavior) Process(_ context.Context, _ core.Message) (*core.Message, error) {
	return nil, nil
}

// Tick does nothing; proactive behaviors override it.
func (b *BaseBehavior) Tick(_ context.Context) error { return nil }

// Cleanup does nothing; behaviors holding resources override it.
func (b *BaseBehavior) Cleanup() error { return nil }

// IsActive reports whether the behavior participates in execution loop ticks.
func (b *BaseBehavior) IsActive() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.active
}

// SetActive toggles participation in execution loop ticks.
func (b *BaseBehavior) SetActive(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.active = active
}
