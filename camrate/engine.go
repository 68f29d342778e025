package camrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-camrate/camrate/backend"
	"github.com/valerio/go-camrate/camrate/camera"
	"github.com/valerio/go-camrate/camrate/config"
	"github.com/valerio/go-camrate/camrate/display"
	"github.com/valerio/go-camrate/camrate/gate"
	"github.com/valerio/go-camrate/camrate/input"
	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
	"github.com/valerio/go-camrate/camrate/pipeline"
	"github.com/valerio/go-camrate/camrate/stats"
	"github.com/valerio/go-camrate/camrate/tick"
	"github.com/valerio/go-camrate/camrate/timing"
	"github.com/valerio/go-camrate/camrate/video"
)

const (
	// fpsWindow is how often the effective camera rates are refreshed, in
	// seconds of engine time.
	fpsWindow = 1.0

	storeQueueSize = 1024
	closeTimeout   = 2 * time.Second
)

// Engine drives a set of cameras from one master tick. Every camera is
// throttled by its own render gate; the engine fires the tick, lets the
// pipeline draw the cameras whose gates opened and keeps per-camera stats.
//
// Engine is not safe for concurrent use, with the exception of QueueConfig.
type Engine struct {
	cfg      config.Config
	clock    timing.Clock
	manual   *timing.ManualClock
	tickStep float64
	limiter  timing.Limiter
	source   *tick.Broadcaster
	pipeline *pipeline.Software
	cameras  []*cameraSlot

	memory   *stats.MemoryStore
	store    *stats.Async
	recorder stats.Store

	inputManager *input.Manager
	inputHandler *input.Handler
	reloads      chan config.Config

	selected    int
	paused      bool
	stepPending bool
	running     bool
	closed      bool
}

type cameraSlot struct {
	cam  *camera.Virtual
	gate *gate.Gate
	fps  *stats.FPSCounter
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock the gates read. The default is the wall clock.
func WithClock(clock timing.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithSimulatedClock drives the gates from a clock that advances by exactly
// one master frame per Step, independent of wall time.
func WithSimulatedClock() Option {
	return func(e *Engine) {
		e.manual = timing.NewManualClock(0)
		e.clock = e.manual
	}
}

// WithLimiter overrides the frame pacing configured in the config.
func WithLimiter(l timing.Limiter) Option {
	return func(e *Engine) { e.limiter = l }
}

// WithStore adds an external stats store. Events reach it from a background
// goroutine; the in-memory counters are always kept.
func WithStore(s stats.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = stats.NewAsync(s, storeQueueSize)
		}
	}
}

// New builds the cameras and gates described by cfg and activates every gate.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		source:       tick.NewBroadcaster(),
		pipeline:     pipeline.NewSoftware(video.DefaultWidth, video.DefaultHeight),
		memory:       stats.NewMemoryStore(),
		inputManager: input.NewManager(),
		inputHandler: input.NewHandler(),
		reloads:      make(chan config.Config, 1),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.clock == nil {
		e.clock = timing.NewSystemClock()
	}
	if e.manual != nil {
		e.tickStep = 1 / cfg.MasterFPS
	}
	if e.limiter == nil {
		limiter, err := timing.NewLimiter(cfg.Limiter, cfg.MasterFPS)
		if err != nil {
			return nil, fmt.Errorf("frame limiter: %w", err)
		}
		e.limiter = limiter
	}

	e.recorder = e.memory
	if e.store != nil {
		e.recorder = stats.Multi{e.memory, e.store}
	}

	for _, cc := range cfg.Cameras {
		e.addCamera(cc)
	}
	e.registerActions()

	slog.Info("Engine ready",
		"cameras", len(e.cameras),
		"master_fps", cfg.MasterFPS,
		"limiter", cfg.Limiter)

	return e, nil
}

func (e *Engine) addCamera(cc config.Camera) {
	scene, _ := video.ParsePattern(cc.Scene)

	var target *video.FrameBuffer
	if cc.Target != nil {
		target = video.NewFrameBuffer(cc.Target.Width, cc.Target.Height)
	}

	slot := &cameraSlot{
		cam: camera.NewVirtual(cc.Name, target, scene),
		fps: stats.NewFPSCounter(fpsWindow),
	}
	name := cc.Name
	slot.gate = gate.New(slot.cam, e.pipeline, e.source, e.clock,
		gate.WithName(name),
		gate.WithTargetRate(cc.RefreshRate),
		gate.WithRenderRequests(cc.SendRenderRequest),
		gate.WithObserver(func(o gate.Outcome) { e.observe(slot, name, o) }),
	)
	slot.gate.Activate()

	e.cameras = append(e.cameras, slot)
}

func (e *Engine) observe(slot *cameraSlot, name string, o gate.Outcome) {
	if o.Rendered() {
		slot.fps.Observe(e.clock.Now())
	}

	ev := stats.Event{Camera: name, Outcome: o, At: time.Now()}
	if err := e.recorder.Record(context.Background(), ev); err != nil {
		slog.Debug("Stats record failed", "camera", name, "outcome", o, "error", err)
	}
}

func (e *Engine) registerActions() {
	for _, act := range []action.Action{
		action.CameraRateUp,
		action.CameraRateDown,
		action.CameraUnthrottle,
		action.CameraNext,
		action.CameraGateToggle,
		action.CameraSceneCycle,
		action.EnginePauseToggle,
		action.EngineStepTick,
		action.EngineQuit,
	} {
		act := act
		e.inputManager.On(act, event.Press, func() { e.HandleAction(act) })
	}
}

// Step runs one master tick: the gates decide, then the pipeline renders
// every camera whose continuous rendering is enabled.
func (e *Engine) Step() {
	e.source.Fire()

	cams := make([]camera.Camera, len(e.cameras))
	for i, slot := range e.cameras {
		cams[i] = slot.cam
	}
	e.pipeline.RenderContinuous(cams...)

	now := e.clock.Now()
	for _, slot := range e.cameras {
		slot.fps.Tick(now)
	}

	if e.manual != nil {
		e.manual.Advance(e.tickStep)
	}
}

// Run steps the engine and presents every tick on b until a quit action,
// ctx ends or the backend fails. All gates are deactivated on return.
func (e *Engine) Run(ctx context.Context, b backend.Backend) error {
	level, _ := config.ParseLevel(e.cfg.LogLevel)
	if err := b.Init(backend.BackendConfig{Title: "camrate", LogLevel: level}); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()
	defer e.Close()

	actions, forwards := b.(interface{ HandleAction(action.Action) })

	e.running = true
	for e.running {
		select {
		case <-ctx.Done():
			slog.Info("Engine stopped", "reason", context.Cause(ctx))
			return nil
		case cfg := <-e.reloads:
			e.ApplyConfig(cfg)
		default:
		}

		if !e.paused || e.stepPending {
			e.Step()
			e.stepPending = false
		}

		events, err := b.Update(e.Frame())
		if err != nil {
			return fmt.Errorf("backend update: %w", err)
		}

		for _, evt := range events {
			if !e.inputHandler.ProcessEvent(evt.Action, evt.Type) {
				continue
			}
			if e.inputManager.Trigger(evt.Action, evt.Type) {
				continue
			}
			if forwards && evt.Type == event.Press {
				actions.HandleAction(evt.Action)
			}
		}

		if e.running {
			e.limiter.WaitForNextFrame()
		}
	}

	return nil
}

// Close deactivates every gate, handing the cameras back to continuous
// rendering, and flushes the external stats store.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true

	for _, slot := range e.cameras {
		slot.gate.Deactivate()
	}
	if s, ok := e.limiter.(interface{ Stop() }); ok {
		s.Stop()
	}
	if e.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := e.store.Close(ctx); err != nil {
			slog.Warn("Stats store did not drain", "error", err)
		}
		if n := e.store.Dropped(); n > 0 {
			slog.Warn("Stats events dropped", "count", n)
		}
	}
}

// HandleAction applies an engine or camera action to the selected camera.
func (e *Engine) HandleAction(act action.Action) {
	slot := e.selectedSlot()

	switch act {
	case action.CameraRateUp, action.CameraRateDown:
		if slot == nil {
			return
		}
		delta := display.RateStep
		if act == action.CameraRateDown {
			delta = -delta
		}
		e.setRate(slot, nextRate(slot.gate.TargetRate(), delta))
	case action.CameraUnthrottle:
		if slot != nil {
			e.setRate(slot, 0)
		}
	case action.CameraNext:
		if len(e.cameras) > 0 {
			e.selected = (e.selected + 1) % len(e.cameras)
			slog.Info("Camera selected", "camera", e.cameras[e.selected].gate.Name())
		}
	case action.CameraGateToggle:
		if slot == nil {
			return
		}
		if slot.gate.Active() {
			slot.gate.Deactivate()
		} else {
			slot.gate.Activate()
		}
		slog.Info("Render gate toggled", "camera", slot.gate.Name(), "active", slot.gate.Active())
	case action.CameraSceneCycle:
		if slot == nil {
			return
		}
		scene := (slot.cam.Scene() + 1) % video.PatternCount
		slot.cam.SetScene(scene)
		slog.Info("Scene changed", "camera", slot.gate.Name(), "scene", scene)
	case action.EnginePauseToggle:
		e.paused = !e.paused
		if !e.paused {
			e.limiter.Reset()
		}
		slog.Info("Pause toggled", "paused", e.paused)
	case action.EngineStepTick:
		if e.paused {
			e.stepPending = true
		}
	case action.EngineQuit:
		e.running = false
	}
}

// nextRate moves a target rate by delta. Rates never drop below one step
// through stepping; unthrottled stays unthrottled going up and comes back
// to the default rate going down.
func nextRate(current, delta int) int {
	if current <= 0 {
		if delta > 0 {
			return 0
		}
		return gate.DefaultTargetRate
	}
	next := current + delta
	if next < display.RateStep {
		next = display.RateStep
	}
	return next
}

func (e *Engine) setRate(slot *cameraSlot, rate int) {
	if slot.gate.TargetRate() == rate {
		return
	}
	slot.gate.SetTargetRate(rate)
	slog.Info("Camera rate changed", "camera", slot.gate.Name(), "target_rate", rate)
}

// QueueConfig hands a reloaded config to the running loop, replacing any
// config still waiting. Safe to call from any goroutine.
func (e *Engine) QueueConfig(cfg config.Config) {
	for {
		select {
		case e.reloads <- cfg:
			return
		default:
		}
		select {
		case <-e.reloads:
		default:
		}
	}
}

// ApplyConfig updates a running engine from a reloaded config. Target rates
// and scenes change in place. The render mode and the set of cameras are
// fixed for the life of the engine; differences are logged and ignored.
func (e *Engine) ApplyConfig(cfg config.Config) {
	if err := cfg.Validate(); err != nil {
		slog.Warn("Ignoring invalid config", "error", err)
		return
	}

	for _, slot := range e.cameras {
		name := slot.gate.Name()
		cc, ok := cfg.Camera(name)
		if !ok {
			slog.Warn("Camera removed from config, restart to apply", "camera", name)
			continue
		}
		e.setRate(slot, cc.RefreshRate)
		if cc.SendRenderRequest != slot.gate.RequestMode() {
			slog.Warn("Render mode cannot change while running",
				"camera", name,
				"send_render_request", cc.SendRenderRequest)
		}
		if scene, ok := video.ParsePattern(cc.Scene); ok && scene != slot.cam.Scene() {
			slot.cam.SetScene(scene)
		}
	}

	for _, cc := range cfg.Cameras {
		if _, ok := e.cfg.Camera(cc.Name); !ok {
			slog.Warn("New camera in config, restart to apply", "camera", cc.Name)
		}
	}
	if cfg.MasterFPS != e.cfg.MasterFPS || cfg.Limiter != e.cfg.Limiter {
		slog.Warn("Frame pacing changes need a restart",
			"master_fps", cfg.MasterFPS,
			"limiter", cfg.Limiter)
	}

	slog.Info("Config applied", "cameras", len(cfg.Cameras))
}

func (e *Engine) selectedSlot() *cameraSlot {
	if e.selected < 0 || e.selected >= len(e.cameras) {
		return nil
	}
	return e.cameras[e.selected]
}

// Frame captures the state handed to backends after a tick.
func (e *Engine) Frame() *backend.Frame {
	f := &backend.Frame{
		Tick:     e.source.Ticks(),
		Time:     e.clock.Now(),
		Paused:   e.paused,
		Selected: e.selected,
		Cameras:  make([]backend.CameraStatus, len(e.cameras)),
	}

	for i, slot := range e.cameras {
		name := slot.gate.Name()
		c := e.memory.Camera(name)
		f.Cameras[i] = backend.CameraStatus{
			Name:        name,
			TargetRate:  slot.gate.TargetRate(),
			RequestMode: slot.gate.RequestMode(),
			GateActive:  slot.gate.Active(),
			Renders:     c.Renders(),
			Skipped:     c.Skipped,
			Unsupported: c.Unsupported,
			FPS:         slot.fps.FPS(),
			Frames:      slot.cam.Frames(),
		}
	}

	if slot := e.selectedSlot(); slot != nil {
		f.Preview = slot.cam.RenderTarget()
		if f.Preview == nil {
			f.Preview = e.pipeline.DefaultFramebuffer()
		}
	}

	return f
}

// Stats returns the counters of the named camera.
func (e *Engine) Stats(name string) (stats.Counters, error) {
	for _, slot := range e.cameras {
		if slot.gate.Name() == name {
			return e.memory.Camera(name), nil
		}
	}
	return stats.Counters{}, fmt.Errorf("%w: %q", ErrUnknownCamera, name)
}

// ErrUnknownCamera is returned for a camera name the engine was not built with.
var ErrUnknownCamera = errors.New("unknown camera")

// Paused reports whether ticks are currently suspended.
func (e *Engine) Paused() bool { return e.paused }

// Pipeline exposes the pipeline the cameras render through.
func (e *Engine) Pipeline() *pipeline.Software { return e.pipeline }
