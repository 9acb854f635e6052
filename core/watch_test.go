package core

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLoopDebouncesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	target := filepath.Join(t.TempDir(), "team.json")
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	var renders atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, target, 20*time.Millisecond, func(context.Context) error {
			renders.Add(1)
			return nil
		})
	}()

	events <- fsnotify.Event{Name: target, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: target, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: filepath.Join(filepath.Dir(target), "other.json"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: target, Op: fsnotify.Chmod}

	assert.Eventually(t, func() bool { return renders.Load() == 1 }, time.Second, 5*time.Millisecond)

	events <- fsnotify.Event{Name: target, Op: fsnotify.Create}
	assert.Eventually(t, func() bool { return renders.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestWatchLoopStopsOnClosedEvents(t *testing.T) {
	events := make(chan fsnotify.Event)
	close(events)
	err := watchLoop(context.Background(), events, make(chan error), "x", time.Millisecond, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}
