package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func (c *fakeClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d.Milliseconds()
	c.mu.Unlock()
}

func newLimiter(limit int) (*SlidingWindow, *fakeClock) {
	clock := &fakeClock{now: 1_700_000_000_000}
	return New(limit, time.Minute, WithClock(clock.Now)), clock
}

func TestAllow_ExactlyThresholdCallsSucceed(t *testing.T) {
	limiter, clock := newLimiter(10)

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "call %d", i+1)
		clock.Advance(time.Second)
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestAllow_WindowRollsPast(t *testing.T) {
	limiter, clock := newLimiter(3)

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Allow("10.0.0.1"))
	}
	require.False(t, limiter.Allow("10.0.0.1"))

	// A hit exactly one window old still counts
	clock.Advance(time.Minute)
	assert.False(t, limiter.Allow("10.0.0.1"))

	clock.Advance(time.Millisecond)
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestAllow_RejectedCallsAreNotRecorded(t *testing.T) {
	limiter, clock := newLimiter(2)

	require.True(t, limiter.Allow("a"))
	clock.Advance(30 * time.Second)
	require.True(t, limiter.Allow("a"))

	clock.Advance(20 * time.Second)
	for i := 0; i < 5; i++ {
		require.False(t, limiter.Allow("a"))
	}

	// Only the first hit has left the window
	clock.Advance(10*time.Second + time.Millisecond)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newLimiter(1)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.10"))
	assert.True(t, limiter.Allow("10.0.0.100"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestAllow_SameMillisecondHitsAllCount(t *testing.T) {
	limiter, _ := newLimiter(5)

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Allow("a"))
	}
	assert.False(t, limiter.Allow("a"))
	assert.Zero(t, limiter.Remaining("a"))
}

func TestRemainingAndRetryAfter(t *testing.T) {
	limiter, clock := newLimiter(2)

	assert.Equal(t, 2, limiter.Remaining("a"))
	assert.Zero(t, limiter.RetryAfter("a"))

	require.True(t, limiter.Allow("a"))
	assert.Equal(t, 1, limiter.Remaining("a"))

	clock.Advance(15 * time.Second)
	require.True(t, limiter.Allow("a"))
	assert.Zero(t, limiter.Remaining("a"))

	clock.Advance(5 * time.Second)
	assert.Equal(t, 40*time.Second+time.Millisecond, limiter.RetryAfter("a"))
}

func TestSweep(t *testing.T) {
	limiter, clock := newLimiter(5)

	limiter.Allow("a")
	limiter.Allow("a")
	limiter.Allow("b")
	clock.Advance(30 * time.Second)
	limiter.Allow("b")

	clock.Advance(30*time.Second + time.Millisecond)
	assert.Equal(t, 3, limiter.Sweep())
	assert.Equal(t, 1, limiter.Clients())
	assert.Equal(t, 4, limiter.Remaining("b"))
	assert.Equal(t, 5, limiter.Remaining("a"))
}

func TestAllow_ClockStepsBack(t *testing.T) {
	limiter, clock := newLimiter(2)

	require.True(t, limiter.Allow("c"))
	clock.Advance(-70 * time.Second)
	require.True(t, limiter.Allow("c"))

	// The second hit is now the stale one even though it was stored last
	clock.Advance(65 * time.Second)
	assert.True(t, limiter.Allow("c"))
	assert.False(t, limiter.Allow("c"))
	assert.Equal(t, 60*time.Second+time.Millisecond, limiter.RetryAfter("c"))
}

func TestNew_Defaults(t *testing.T) {
	limiter := New(0, 0)
	assert.Equal(t, DefaultLimit, limiter.Limit())
	assert.Equal(t, DefaultWindow, limiter.Window())
}

func TestAllow_Concurrent(t *testing.T) {
	limiter, _ := newLimiter(50)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}
