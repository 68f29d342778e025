// Package gate throttles how often a single camera renders, independently of
// the rate at which ticks arrive.
//
// On every tick a Gate compares the current time with the deadline of the
// next render. When a render is due it either lets the host render the camera
// continuously for that tick or submits a single on-demand render request,
// depending on configuration. A target rate of zero or less disables
// throttling and renders on every tick.
package gate

import (
	"log/slog"

	"github.com/valerio/go-camrate/camrate/camera"
	"github.com/valerio/go-camrate/camrate/pipeline"
	"github.com/valerio/go-camrate/camrate/tick"
	"github.com/valerio/go-camrate/camrate/timing"
)

// Outcome is what a gate did on one tick.
type Outcome int

const (
	// Skipped means no render was due.
	Skipped Outcome = iota
	// RenderedContinuous means the continuous-rendering flag was raised.
	RenderedContinuous
	// RenderedRequest means an on-demand request was submitted.
	RenderedRequest
	// RequestUnsupported means a render was due but the pipeline refused
	// the request, so nothing was rendered.
	RequestUnsupported
)

var outcomeNames = map[Outcome]string{
	Skipped:            "skipped",
	RenderedContinuous: "continuous",
	RenderedRequest:    "request",
	RequestUnsupported: "unsupported",
}

func (o Outcome) String() string {
	if n, ok := outcomeNames[o]; ok {
		return n
	}
	return "unknown"
}

// Rendered reports whether the outcome counts as a render.
func (o Outcome) Rendered() bool {
	return o == RenderedContinuous || o == RenderedRequest
}

// Gate rate-limits one camera. It is driven by a tick.Source and is not safe
// for concurrent use; all methods are expected to run on the goroutine that
// broadcasts ticks.
type Gate struct {
	cam      camera.Camera
	pipeline pipeline.Pipeline
	source   tick.Source
	clock    timing.Clock

	targetRate           int
	useRenderRequestMode bool
	nextRenderDeadline   float64

	active   bool
	observer func(Outcome)
	name     string
}

// Option configures a Gate.
type Option func(*Gate)

// WithTargetRate sets the initial target rate in frames per second.
func WithTargetRate(rate int) Option {
	return func(g *Gate) { g.targetRate = rate }
}

// WithRenderRequests makes the gate render through on-demand pipeline
// requests instead of toggling continuous rendering.
func WithRenderRequests(enabled bool) Option {
	return func(g *Gate) { g.useRenderRequestMode = enabled }
}

// WithObserver registers a function called with the outcome of every tick.
func WithObserver(fn func(Outcome)) Option {
	return func(g *Gate) { g.observer = fn }
}

// WithName labels the gate in log output.
func WithName(name string) Option {
	return func(g *Gate) { g.name = name }
}

// DefaultTargetRate is the rate a gate starts with when none is given.
const DefaultTargetRate = 120

// New binds a gate to cam. The gate does not own cam; it only flips its
// continuous-rendering flag while active. p may be nil when request mode is
// never used.
func New(cam camera.Camera, p pipeline.Pipeline, source tick.Source, clock timing.Clock, opts ...Option) *Gate {
	g := &Gate{
		cam:        cam,
		pipeline:   p,
		source:     source,
		clock:      clock,
		targetRate: DefaultTargetRate,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Activate subscribes to the tick source, hands rendering control of the
// camera to the gate and makes the first render due immediately. Activating
// an active gate keeps its deadline.
func (g *Gate) Activate() {
	if g.active {
		g.cam.SetRenderingEnabled(false)
		return
	}
	g.source.Subscribe(g)
	g.cam.SetRenderingEnabled(false)
	g.nextRenderDeadline = g.clock.Now()
	g.active = true

	slog.Debug("Render gate activated",
		"camera", g.name,
		"target_rate", g.targetRate,
		"request_mode", g.useRenderRequestMode)
}

// Deactivate unsubscribes and gives the camera back to the host's
// continuous rendering. A camera that has since been destroyed is left alone.
func (g *Gate) Deactivate() {
	g.source.Unsubscribe(g)
	g.active = false

	if camera.Valid(g.cam) {
		g.cam.SetRenderingEnabled(true)
	}

	slog.Debug("Render gate deactivated", "camera", g.name)
}

// SetTargetRate changes the target rate. It takes effect on the next tick.
func (g *Gate) SetTargetRate(rate int) {
	g.targetRate = rate
}

func (g *Gate) TargetRate() int { return g.targetRate }

func (g *Gate) RequestMode() bool { return g.useRenderRequestMode }

// NextDeadline is the earliest time the next throttled render may happen.
func (g *Gate) NextDeadline() float64 { return g.nextRenderDeadline }

func (g *Gate) Active() bool { return g.active }

func (g *Gate) Name() string { return g.name }

// OnTick implements tick.Listener.
func (g *Gate) OnTick() {
	g.TryRender()
}

// TryRender decides whether the camera renders on this tick and returns
// what happened.
func (g *Gate) TryRender() Outcome {
	if g.targetRate <= 0 {
		return g.report(g.renderNow())
	}

	// the camera must never free-run while throttled, even if something
	// else re-enabled it since the last tick
	g.cam.SetRenderingEnabled(false)

	now := g.clock.Now()
	if now < g.nextRenderDeadline {
		return g.report(Skipped)
	}

	outcome := g.renderNow()
	g.nextRenderDeadline = now + 1.0/float64(g.targetRate)
	return g.report(outcome)
}

func (g *Gate) renderNow() Outcome {
	if g.useRenderRequestMode {
		return g.sendRenderRequest()
	}
	g.cam.SetRenderingEnabled(true)
	return RenderedContinuous
}

func (g *Gate) sendRenderRequest() Outcome {
	if g.pipeline == nil {
		return RequestUnsupported
	}

	req := pipeline.NewStandardRequest()
	if !g.pipeline.SupportsRequest(g.cam, req) {
		return RequestUnsupported
	}

	req.Destination = g.cam.RenderTarget()
	g.pipeline.SubmitRequest(g.cam, req)
	return RenderedRequest
}

func (g *Gate) report(o Outcome) Outcome {
	if g.observer != nil {
		g.observer(o)
	}
	return o
}

var _ tick.Listener = (*Gate)(nil)
