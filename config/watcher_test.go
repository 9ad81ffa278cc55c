package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/agentcore/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_InitialConfig(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: warn\n")

	w, err := NewWatcher(path, WithWatchLogger(logging.NoOpLogger{}))
	require.NoError(t, err)

	assert.Equal(t, "warn", w.Config().Log.Level)
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: info\n")

	w, err := NewWatcher(path,
		WithWatchInterval(10*time.Millisecond),
		WithWatchLogger(logging.NoOpLogger{}),
	)
	require.NoError(t, err)

	var reloads atomic.Int32
	w.OnChange(func(cfg *Config) {
		if cfg.Log.Level == "debug" {
			reloads.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)
	defer w.Stop()

	// mtime granularity can be coarse; make the change clearly newer.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	now := time.Now()
	require.NoError(t, os.Chtimes(path, now, now))

	require.Eventually(t, func() bool {
		return reloads.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "debug", w.Config().Log.Level)
}

func TestWatchConfig(t *testing.T) {
	path := writeConfigFile(t, "memory:\n  capacity: 12\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, cfg, err := WatchConfig(ctx, path, WithWatchLogger(logging.NoOpLogger{}))
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, 12, cfg.Memory.Capacity)
}
