package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Future Tests --------------------

func TestFuture_ResolveAndWait(t *testing.T) {
	fut := NewFuture[string]()

	go fut.Resolve("done")

	val, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.True(t, fut.Completed())
}

func TestFuture_Reject(t *testing.T) {
	fut := NewFuture[int]()
	fut.Reject(errors.New("boom"))

	_, err := fut.Wait(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestFuture_FirstCompletionWins(t *testing.T) {
	fut := NewFuture[int]()
	fut.Resolve(1)
	fut.Resolve(2)
	fut.Reject(errors.New("too late"))

	val, err := fut.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, val)
}

func TestFuture_WaitCancelled(t *testing.T) {
	fut := NewFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := fut.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, fut.Completed())
}

func TestResolvedAndRejected(t *testing.T) {
	val, err := Resolved("x").Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", val)

	_, err = Rejected[string](errors.New("nope")).Wait(context.Background())
	assert.EqualError(t, err, "nope")
}

func TestFuture_DoneChannel(t *testing.T) {
	fut := NewFuture[struct{}]()

	select {
	case <-fut.Done():
		t.Fatal("future should not be done yet")
	default:
	}

	fut.Resolve(struct{}{})

	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("future should be done")
	}
}
