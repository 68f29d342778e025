package timing

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// RateLimiter paces ticks with a token bucket of burst 1, so a stalled loop
// never releases more than one tick at once.
type RateLimiter struct {
	lim *rate.Limiter
	fps float64
}

func NewRateLimiter(fps float64) *RateLimiter {
	if fps <= 0 {
		fps = DefaultMasterFPS
	}
	return &RateLimiter{
		lim: rate.NewLimiter(rate.Limit(fps), 1),
		fps: fps,
	}
}

func (r *RateLimiter) WaitForNextFrame() {
	if err := r.lim.Wait(context.Background()); err != nil {
		slog.Warn("Rate limiter wait failed", "error", err)
	}
}

// Reset drops any accumulated token, e.g. after a pause.
func (r *RateLimiter) Reset() {
	r.lim = rate.NewLimiter(rate.Limit(r.fps), 1)
}

// FPS returns the configured tick rate.
func (r *RateLimiter) FPS() float64 {
	return r.fps
}
