package backend

import (
	"log/slog"

	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
	"github.com/valerio/go-camrate/camrate/video"
)

// Backend presents the engine to the user (terminal, log output, ...).
// Backends are responsible for:
// - Presenting each Frame in their specific output
// - Translating platform-specific input events to actions
// - Handling backend-specific features (snapshots, log panes)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update presents the frame and returns the input events collected
	// since the previous call.
	Update(frame *Frame) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is an action produced by a backend.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	// LogLevel is the initial level for backends that capture logs
	LogLevel slog.Level
}

// Frame is what the engine hands to the backend after every tick.
type Frame struct {
	Tick     uint64
	Time     float64 // engine clock, seconds
	Paused   bool
	Selected int // index into Cameras
	Cameras  []CameraStatus

	// Preview is the render target of the selected camera.
	Preview *video.FrameBuffer
}

// CameraStatus is a snapshot of one camera and its gate.
type CameraStatus struct {
	Name        string
	TargetRate  int
	RequestMode bool
	GateActive  bool
	Renders     int64
	Skipped     int64
	Unsupported int64
	FPS         float64
	Frames      uint64
}

// SelectedCamera returns the status of the selected camera, if any.
func (f *Frame) SelectedCamera() (CameraStatus, bool) {
	if f == nil || f.Selected < 0 || f.Selected >= len(f.Cameras) {
		return CameraStatus{}, false
	}
	return f.Cameras[f.Selected], true
}
