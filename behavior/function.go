package behavior

import (
	"context"

	"github.com/hupe1980/agentcore/core"
)

// FunctionBehaviorOptions configures a FunctionBehavior. Every hook is
// optional; omitted hooks fall back to the BaseBehavior defaults.
type FunctionBehaviorOptions struct {
	// Priority is the declared priority metadata.
	Priority int

	// OnInit runs after the base initialization during agent startup.
	OnInit func(rt Runtime) error

	// CanHandle decides whether Process is consulted for a message. Nil
	// means the behavior handles no messages.
	CanHandle func(msg core.Message) bool

	// Process handles a message. Nil means no reply is ever produced.
	Process func(ctx context.Context, msg core.Message) (*core.Message, error)

	// Tick performs proactive work each execution loop cycle.
	Tick func(ctx context.Context) error

	// OnCleanup runs during agent shutdown or behavior removal.
	OnCleanup func() error
}

// FunctionBehavior assembles a Behavior from plain functions, the quickest
// way to add reactive or proactive logic without declaring a new type.
//
//	echo := behavior.NewFunctionBehavior("echo", func(o *behavior.FunctionBehaviorOptions) {
//		o.CanHandle = func(msg core.Message) bool { return msg.Type == core.MessageTypeRequest }
//		o.Process = func(_ context.Context, msg core.Message) (*core.Message, error) {
//			reply := msg.Reply(msg.Content)
//			return &reply, nil
//		}
//	})
type FunctionBehavior struct {
	BaseBehavior
	opts FunctionBehaviorOptions
}

var _ Behavior = (*FunctionBehavior)(nil)

// NewFunctionBehavior creates a behavior backed by the configured hooks.
func NewFunctionBehavior(name string, optFns ...func(o *FunctionBehaviorOptions)) *FunctionBehavior {
	opts := FunctionBehaviorOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &FunctionBehavior{
		BaseBehavior: NewBaseBehavior(name, opts.Priority),
		opts:         opts,
	}
}

// Initialize runs the base initialization followed by the OnInit hook.
func (b *FunctionBehavior) Initialize(rt Runtime) error {
	if err := b.BaseBehavior.Initialize(rt); err != nil {
		return err
	}

	if b.opts.OnInit != nil {
		return b.opts.OnInit(rt)
	}

	return nil
}

// CanHandle consults the configured predicate.
func (b *FunctionBehavior) CanHandle(msg core.Message) bool {
	if b.opts.CanHandle == nil {
		return false
	}

	return b.opts.CanHandle(msg)
}

// Process invokes the configured handler.
func (b *FunctionBehavior) Process(ctx context.Context, msg core.Message) (*core.Message, error) {
	if b.opts.Process == nil {
		return nil, nil
	}

	return b.opts.Process(ctx, msg)
}

// Tick invokes the configured proactive hook.
func (b *FunctionBehavior) Tick(ctx context.Context) error {
	if b.opts.Tick == nil {
		return nil
	}

	return b.opts.Tick(ctx)
}

// Cleanup invokes the configured cleanup hook.
func (b *FunctionBehavior) Cleanup() error {
	if b.opts.OnCleanup != nil {
		return b.opts.OnCleanup()
	}

	return nil
}
