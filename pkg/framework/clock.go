package framework

import (
	"sync"
	"time"
)

// SystemClock is the Clock backed by the monotonic system clock.
type SystemClock struct{}

// Time implements TimeSource.
func (SystemClock) Time() time.Time {
	return time.Now()
}

// Sleep implements Clock.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// ManualClock is a Clock which only moves when told to.
// Sleep advances the clock immediately and records the duration.
type ManualClock struct {
	now    time.Time
	sleeps []time.Duration
	lock   sync.Mutex
}

// NewManualClock creates a ManualClock starting at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Time implements TimeSource.
func (c *ManualClock) Time() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Sleep implements Clock.
func (c *ManualClock) Sleep(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	c.lock.Unlock()
}

// Advance moves the clock forward without recording a sleep.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Sleeps returns and clears the recorded sleep durations.
func (c *ManualClock) Sleeps() []time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	sleeps := c.sleeps
	c.sleeps = nil
	return sleeps
}
