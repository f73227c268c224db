package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newInMemoryIdempotencyStore(time.Hour, clock.Now)
	defer store.Close()

	t.Run("first mark wins", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "event-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "event-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, isNew)

		processed, err := store.IsProcessed(ctx, "event-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired marks can be taken again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "event-2", time.Minute)
		require.NoError(t, err)
		clock.Advance(2 * time.Minute)

		processed, err := store.IsProcessed(ctx, "event-2")
		require.NoError(t, err)
		assert.False(t, processed)

		isNew, err := store.MarkProcessed(ctx, "event-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("forget releases the mark", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "event-3", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Forget(ctx, "event-3"))

		isNew, err := store.MarkProcessed(ctx, "event-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("sweep drops expired keys", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "event-4", time.Second)
		require.NoError(t, err)
		require.NotZero(t, store.Size())
		clock.Advance(24 * time.Hour)

		store.sweep()
		assert.Zero(t, store.Size())
	})
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "same-event", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestNewIdempotencyStore_WithoutRedis(t *testing.T) {
	store := NewIdempotencyStore(nil, zap.NewNop())
	defer store.Close()
	_, ok := store.(*InMemoryIdempotencyStore)
	assert.True(t, ok)
}
