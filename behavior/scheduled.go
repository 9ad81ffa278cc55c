package behavior

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hupe1980/agentcore/core"
)

// ScheduledBehaviorOptions configures a ScheduledBehavior.
type ScheduledBehaviorOptions struct {
	// Priority is the declared priority metadata.
	Priority int

	// Now supplies the current time. Override in tests to control when the
	// schedule comes due.
	Now func() time.Time
}

// ScheduledBehavior gates proactive work behind a cron schedule. The agent's
// execution loop ticks behaviors every cycle; a ScheduledBehavior turns those
// frequent ticks into task runs only when the schedule comes due, so the
// effective resolution is the loop's execution interval.
type ScheduledBehavior struct {
	BaseBehavior

	schedule cron.Schedule
	task     func(ctx context.Context) error
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

var _ Behavior = (*ScheduledBehavior)(nil)

// NewScheduledBehavior creates a behavior that runs task whenever the
// standard five-field cron expression comes due. Descriptors such as
// "@hourly" and "@every 30s" are accepted as well.
func NewScheduledBehavior(name, cronExpr string, task func(ctx context.Context) error, optFns ...func(o *ScheduledBehaviorOptions)) (*ScheduledBehavior, error) {
	opts := ScheduledBehaviorOptions{
		Now: time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, core.WrapError(core.CodeInvalidArgument, "invalid cron expression "+cronExpr, err)
	}

	return &ScheduledBehavior{
		BaseBehavior: NewBaseBehavior(name, opts.Priority),
		schedule:     schedule,
		task:         task,
		now:          opts.Now,
	}, nil
}

// Initialize arms the schedule relative to the current time.
func (b *ScheduledBehavior) Initialize(rt Runtime) error {
	if err := b.BaseBehavior.Initialize(rt); err != nil {
		return err
	}

	b.mu.Lock()
	b.next = b.schedule.Next(b.now())
	b.mu.Unlock()

	return nil
}

// NextRun returns the next time the task is due. The zero time means the
// behavior has not been initialized yet.
func (b *ScheduledBehavior) NextRun() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.next
}

// Tick runs the task if the schedule has come due, otherwise it returns
// immediately. A due tick advances the schedule before running the task, so
// a slow task never causes double firing.
func (b *ScheduledBehavior) Tick(ctx context.Context) error {
	b.mu.Lock()

	now := b.now()
	if b.next.IsZero() {
		b.next = b.schedule.Next(now)
	}

	if now.Before(b.next) {
		b.mu.Unlock()
		return nil
	}

	b.next = b.schedule.Next(now)
	b.mu.Unlock()

	return b.task(ctx)
}
