package headless

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-camrate/camrate/backend"
	"github.com/valerio/go-camrate/camrate/debug"
	"github.com/valerio/go-camrate/camrate/display"
	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.BackendConfig
	tickCount      int
	maxTicks       int
	snapshotConfig SnapshotConfig
	lastFrame      *backend.Frame
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N ticks
	Directory string // Directory to save snapshots
}

func New(maxTicks int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxTicks:       maxTicks,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	slog.Info("Running headless mode",
		"ticks", h.maxTicks,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update counts a tick, handles snapshots and asks to quit after maxTicks
func (h *Backend) Update(frame *backend.Frame) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.tickCount++
	h.lastFrame = frame

	// Save snapshot if needed
	if h.snapshotConfig.Enabled && h.tickCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	// Log progress periodically
	if h.tickCount%display.ProgressLogInterval == 0 {
		slog.Info("Tick progress", "completed", h.tickCount, "total", h.maxTicks)
		for _, cam := range frame.Cameras {
			slog.Debug("Camera status",
				"camera", cam.Name,
				"target_rate", cam.TargetRate,
				"renders", cam.Renders,
				"skipped", cam.Skipped,
				"fps", fmt.Sprintf("%.1f", cam.FPS))
		}
	}

	// Check if we've reached the target tick count
	if h.maxTicks > 0 && h.tickCount >= h.maxTicks {
		if h.snapshotConfig.Enabled && h.tickCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}

		slog.Info("Headless execution completed", "ticks", h.tickCount)
		events = append(events, backend.InputEvent{Action: action.EngineQuit, Type: event.Press})
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	if h.lastFrame == nil {
		return nil
	}
	for _, cam := range h.lastFrame.Cameras {
		slog.Info("Camera summary",
			"camera", cam.Name,
			"target_rate", cam.TargetRate,
			"request_mode", cam.RequestMode,
			"renders", cam.Renders,
			"skipped", cam.Skipped,
			"unsupported", cam.Unsupported)
	}
	return nil
}

// Ticks returns the number of frames seen so far.
func (h *Backend) Ticks() int {
	return h.tickCount
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	// Set up snapshot directory
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "camrate-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	return config, nil
}

// saveSnapshot saves a PNG snapshot of the selected camera's target
func (h *Backend) saveSnapshot(frame *backend.Frame) {
	if frame == nil || frame.Preview == nil {
		return
	}

	name := "camera"
	if cam, ok := frame.SelectedCamera(); ok {
		name = cam.Name
	}
	baseName := fmt.Sprintf("%s_tick_%d", name, h.tickCount)

	if _, err := debug.SaveFramePNGToDir(frame.Preview, baseName, h.snapshotConfig.Directory); err != nil {
		slog.Error("Failed to save PNG snapshot", "tick", h.tickCount, "error", err)
	}
}
