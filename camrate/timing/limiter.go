package timing

import (
	"fmt"
	"time"
)

// Limiter paces the master loop that broadcasts ticks.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next tick.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// DefaultMasterFPS is the tick cadence used when none is configured.
const DefaultMasterFPS = 60.0

// FrameDuration returns the duration of a single tick at fps.
// Non-positive rates fall back to DefaultMasterFPS.
func FrameDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultMasterFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// Limiter kinds accepted by NewLimiter.
const (
	KindNone     = "none"
	KindTicker   = "ticker"
	KindAdaptive = "adaptive"
	KindRate     = "rate"
)

// ValidKind reports whether NewLimiter accepts kind.
func ValidKind(kind string) bool {
	switch kind {
	case "", KindNone, KindTicker, KindAdaptive, KindRate:
		return true
	}
	return false
}

// NewLimiter builds the limiter named by kind, pacing ticks at fps.
func NewLimiter(kind string, fps float64) (Limiter, error) {
	switch kind {
	case KindNone:
		return NewNoOpLimiter(), nil
	case KindTicker:
		return NewTickerLimiter(fps), nil
	case "", KindAdaptive:
		return NewAdaptiveLimiter(fps), nil
	case KindRate:
		return NewRateLimiter(fps), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", kind)
	}
}
