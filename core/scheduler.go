package core

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/hupe1980/agentcore/logging"
)

// Scheduler is the dedicated, unbounded worker pool owned by an agent. Every
// lifecycle and processing task runs on it as an independent goroutine. The
// owning runtime creates a fresh scheduler on start and closes it on stop,
// making task teardown deterministic.
type Scheduler struct {
	logger logging.Logger
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewScheduler creates an open scheduler. A nil logger is replaced with a
// no-op logger.
func NewScheduler(logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &Scheduler{logger: logger}
}

// Submit runs task on its own worker goroutine. Panics inside task are
// recovered and logged so a misbehaving task never crashes the agent.
// Submitting to a closed scheduler fails with a NOT_RUNNING error.
func (s *Scheduler) Submit(task func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return NewError(CodeNotRunning, "scheduler is closed")
	}

	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("scheduler task panic recovered", "panic", r, "stack", string(debug.Stack()))
			}
		}()

		task()
	}()

	return nil
}

// Close stops the scheduler from accepting new tasks. In-flight tasks run to
// completion. Close is idempotent and safe to call from a scheduled task.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

// Closed reports whether the scheduler no longer accepts tasks.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Join blocks until every in-flight task has finished or ctx is done. Join
// is only meaningful after Close, once no new tasks can be admitted.
func (s *Scheduler) Join(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run submits fn to the scheduler and exposes its outcome as a future. A
// panic inside fn rejects the future with an INTERNAL error; submitting to a
// closed scheduler rejects it immediately.
func Run[T any](s *Scheduler, fn func() (T, error)) *Future[T] {
	fut := NewFuture[T]()

	submitErr := s.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("task panic recovered", "panic", r, "stack", string(debug.Stack()))
				fut.Reject(NewErrorf(CodeInternal, "task panic: %v", r))
			}
		}()

		val, err := fn()
		if err != nil {
			fut.Reject(err)
			return
		}

		fut.Resolve(val)
	})
	if submitErr != nil {
		fut.Reject(submitErr)
	}

	return fut
}
