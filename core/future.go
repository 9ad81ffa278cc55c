package core

import (
	"context"
	"sync"
)

// Future is the non-blocking result of an asynchronous operation. Every
// public runtime operation returns a future instead of blocking the caller.
//
// A future completes exactly once, via Resolve or Reject; later completions
// are ignored. Waiters observe completion through Done or Wait.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// NewFuture creates an incomplete future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns an already-completed successful future.
func Resolved[T any](val T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(val)

	return f
}

// Rejected returns an already-completed failed future.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)

	return f
}

// Resolve completes the future successfully. Only the first completion wins.
func (f *Future[T]) Resolve(val T) {
	f.once.Do(func() {
		f.val = val
		close(f.done)
	})
}

// Reject completes the future with an error. Only the first completion wins.
func (f *Future[T]) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Completed reports whether the future has completed without blocking.
func (f *Future[T]) Completed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future completes or ctx is cancelled. On
// cancellation the zero value and ctx's error are returned; the future may
// still complete later for other waiters.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
