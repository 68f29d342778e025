package timing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-camrate/camrate/timing"
)

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, timing.FrameDuration(10))
	assert.Equal(t, timing.FrameDuration(timing.DefaultMasterFPS), timing.FrameDuration(0))
	assert.Equal(t, timing.FrameDuration(timing.DefaultMasterFPS), timing.FrameDuration(-5))
}

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{timing.KindNone, false},
		{timing.KindTicker, false},
		{timing.KindAdaptive, false},
		{"", false},
		{timing.KindRate, false},
		{"vsync", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			lim, err := timing.NewLimiter(tt.kind, 1000)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, lim)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, lim)
			if tl, ok := lim.(*timing.TickerLimiter); ok {
				tl.Stop()
			}
		})
	}
}

func TestNoOpLimiterDoesNotBlock(t *testing.T) {
	lim := timing.NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 1000; i++ {
		lim.WaitForNextFrame()
	}
	lim.Reset()
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiterPacesTicks(t *testing.T) {
	lim := timing.NewRateLimiter(200)
	assert.Equal(t, 200.0, lim.FPS())

	start := time.Now()
	for i := 0; i < 5; i++ {
		lim.WaitForNextFrame()
	}
	// first token is free, four more at 5ms each
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestAdaptiveLimiterPacesTicks(t *testing.T) {
	lim := timing.NewAdaptiveLimiter(500)
	start := time.Now()
	for i := 0; i < 5; i++ {
		lim.WaitForNextFrame()
	}
	// first wait returns immediately, the next four wait ~2ms each
	assert.GreaterOrEqual(t, time.Since(start), 6*time.Millisecond)
}

func TestManualClock(t *testing.T) {
	c := timing.NewManualClock(1.5)
	assert.Equal(t, 1.5, c.Now())

	assert.InDelta(t, 1.75, c.Advance(0.25), 1e-12)
	assert.InDelta(t, 1.75, c.Now(), 1e-12)

	c.Set(10)
	assert.Equal(t, 10.0, c.Now())
}

func TestSystemClockIsMonotonic(t *testing.T) {
	c := timing.NewSystemClock()
	prev := c.Now()
	assert.GreaterOrEqual(t, prev, 0.0)
	for i := 0; i < 100; i++ {
		now := c.Now()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}
