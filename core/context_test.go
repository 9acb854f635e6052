package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(withSuppressHeader(ctx)))

	wrongType := context.WithValue(ctx, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(wrongType))
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	_, ok := getRunID(ctx)
	assert.False(t, ok)

	runID, ok := getRunID(withRunID(ctx, 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), runID)

	_, ok = getRunID(withRunID(ctx, 0))
	assert.False(t, ok)
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(withSuppressHeader(context.Background()), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			runID, ok := getRunID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", i)
			assert.True(t, ok, "goroutine %d", i)
			assert.Equal(t, int64(12345), runID, "goroutine %d", i)
		})
	}
	wg.Wait()
}
