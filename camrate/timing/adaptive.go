package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	startTime       time.Time
}

func NewAdaptiveLimiter(fps float64) *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(fps),
		nextFrameTime:   now,
		startTime:       now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			time.Sleep(sleepTime - time.Millisecond)
		}
		for time.Now().Before(a.nextFrameTime) {
			// busy-wait the last millisecond, higher accuracy.
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind: drop the backlog instead of bursting ticks.
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		actualTime := time.Now()
		drift := actualTime.Sub(a.nextFrameTime)

		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("Tick timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"fps", float64(a.frameCounter)/actualTime.Sub(a.startTime).Seconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	now := time.Now()
	a.nextFrameTime = now
	a.startTime = now
	a.frameCounter = 0
}
