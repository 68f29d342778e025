package timing

import (
	"sync"
	"time"
)

// Clock reads monotonic time in seconds. Gates and the tick source share the
// same clock domain.
type Clock interface {
	Now() float64
}

// SystemClock reports seconds elapsed since it was created, using the
// monotonic reading carried by time.Time.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// ManualClock is a clock that only moves when told to. Used by tests and
// deterministic headless runs.
type ManualClock struct {
	mu  sync.Mutex
	now float64
}

func NewManualClock(start float64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Moving backwards is allowed; callers that need
// monotonic time must not do it.
func (c *ManualClock) Set(t float64) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by dt seconds and returns the new time.
func (c *ManualClock) Advance(dt float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += dt
	return c.now
}
