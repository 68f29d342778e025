package stats

// FPSCounter measures an effective render rate from render timestamps, in
// the gate clock's seconds. The rate is refreshed once per update window.
type FPSCounter struct {
	window     float64
	fps        float64
	frameCount int
	lastUpdate float64
	started    bool
}

func NewFPSCounter(window float64) *FPSCounter {
	if window <= 0 {
		window = 1
	}
	return &FPSCounter{window: window}
}

// Observe counts one render at time now.
func (fc *FPSCounter) Observe(now float64) {
	if !fc.started {
		fc.started = true
		fc.lastUpdate = now
	}
	fc.update(now)
	fc.frameCount++
}

// Tick lets time pass without a render, so a camera that stopped rendering
// decays to zero.
func (fc *FPSCounter) Tick(now float64) {
	if !fc.started {
		return
	}
	fc.update(now)
}

func (fc *FPSCounter) update(now float64) {
	elapsed := now - fc.lastUpdate
	if elapsed >= fc.window {
		fc.fps = float64(fc.frameCount) / elapsed
		fc.frameCount = 0
		fc.lastUpdate = now
	}
}

// FPS returns the rate measured over the last complete window.
func (fc *FPSCounter) FPS() float64 {
	return fc.fps
}
