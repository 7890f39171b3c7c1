package ratelimit

import (
	"sync"
	"time"
)

// Counter estimates the event rate over a trailing interval using two
// rolling buckets: the current interval and the previous one, the previous
// weighted by how much of it still falls inside the trailing window. Memory
// is constant regardless of traffic, and with no new events the estimate
// only decays.
type Counter struct {
	mu       sync.Mutex
	interval time.Duration
	start    time.Time
	current  float64
	previous float64

	now func() time.Time
}

func NewCounter(interval time.Duration) *Counter {
	c := &Counter{
		interval: interval,
		now:      time.Now,
	}
	c.start = c.now()
	return c
}

// Observe records one event and returns the estimated event count within
// the trailing interval, including the event just recorded. The event is
// counted even when the caller goes on to reject the request.
func (c *Counter) Observe() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.roll(now)

	c.current++
	return c.estimate(now)
}

// Rate returns the current estimate without recording an event.
func (c *Counter) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.roll(now)
	return c.estimate(now)
}

// roll shifts the buckets so that start marks the beginning of the bucket
// containing now.
func (c *Counter) roll(now time.Time) {
	elapsed := now.Sub(c.start)
	if elapsed < c.interval {
		return
	}

	periods := int64(elapsed / c.interval)
	if periods == 1 {
		c.previous = c.current
	} else {
		// A full interval with no events passed, nothing carries over.
		c.previous = 0
	}
	c.current = 0
	c.start = c.start.Add(time.Duration(periods) * c.interval)
}

func (c *Counter) estimate(now time.Time) float64 {
	frac := float64(now.Sub(c.start)) / float64(c.interval)
	return c.previous*(1-frac) + c.current
}
