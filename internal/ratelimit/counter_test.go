package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time {
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newTestCounter(interval time.Duration) (*Counter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := &Counter{
		interval: interval,
		start:    clock.t,
		now:      clock.now,
	}
	return c, clock
}

func TestCounterBurstWithinInterval(t *testing.T) {
	c, clock := newTestCounter(time.Second)

	// Five events spread inside one interval stay at or under five.
	for i := 1; i <= 5; i++ {
		got := c.Observe()
		require.Equal(t, float64(i), got)
		clock.advance(100 * time.Millisecond)
	}

	// The sixth event inside the same interval must read over five.
	got := c.Observe()
	assert.Greater(t, got, float64(5))
}

func TestCounterDecaysWithoutEvents(t *testing.T) {
	c, clock := newTestCounter(time.Minute)

	for i := 0; i < 4; i++ {
		c.Observe()
	}
	require.Equal(t, float64(4), c.Rate())

	// Halfway through the next interval the previous bucket is half
	// weighted.
	clock.advance(90 * time.Second)
	assert.InDelta(t, 2.0, c.Rate(), 0.001)

	// Rate never increases while no events arrive.
	prev := c.Rate()
	for i := 0; i < 10; i++ {
		clock.advance(7 * time.Second)
		cur := c.Rate()
		assert.LessOrEqual(t, cur, prev)
		prev = cur
	}

	// Two full idle intervals later nothing carries over.
	clock.advance(2 * time.Minute)
	assert.Equal(t, float64(0), c.Rate())
}

func TestCounterRollSkipsIdleIntervals(t *testing.T) {
	c, clock := newTestCounter(time.Second)

	for i := 0; i < 3; i++ {
		c.Observe()
	}

	// A gap much longer than the interval must not leak old events into
	// the previous bucket.
	clock.advance(10*time.Second + 300*time.Millisecond)
	assert.Equal(t, float64(1), c.Observe())
}
