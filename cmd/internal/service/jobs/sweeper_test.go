package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"consultacnpj/cmd/internal/cache"
	"consultacnpj/cmd/internal/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	sweeps atomic.Int32
	err    error
}

func (c *countingCache) Sweep() (int, error) {
	c.sweeps.Add(1)
	return 1, c.err
}

type countingLimiter struct {
	sweeps atomic.Int32
}

func (l *countingLimiter) Sweep() int {
	l.sweeps.Add(1)
	return 0
}

func TestSweeper_CleanupEvictsExpired(t *testing.T) {
	now := int64(1_700_000_000_000)
	clock := func() int64 { return now }

	store := cache.NewMemory(cache.WithTTL(time.Minute), cache.WithClock(clock))
	limiter := ratelimit.New(5, time.Minute, ratelimit.WithClock(clock))

	require.NoError(t, store.Set("11222333000181", &cache.Entry{Found: false}))
	require.True(t, limiter.Allow("10.0.0.1"))

	now += time.Minute.Milliseconds() + 1
	NewSweeper(store, limiter, time.Minute).cleanup()

	n, err := store.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, limiter.Clients())
}

func TestSweeper_CacheErrorStillSweepsLimiter(t *testing.T) {
	store := &countingCache{err: errors.New("locked")}
	limiter := &countingLimiter{}

	NewSweeper(store, limiter, time.Minute).cleanup()

	assert.Equal(t, int32(1), store.sweeps.Load())
	assert.Equal(t, int32(1), limiter.sweeps.Load())
}

func TestSweeper_StartTicksUntilCancelled(t *testing.T) {
	store := &countingCache{}
	limiter := &countingLimiter{}
	sweeper := NewSweeper(store, limiter, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.sweeps.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
	assert.GreaterOrEqual(t, limiter.sweeps.Load(), int32(2))
}

func TestNewSweeper_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultSweepInterval, NewSweeper(&countingCache{}, &countingLimiter{}, 0).interval)
}
