package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-camrate/camrate/backend"
	"github.com/valerio/go-camrate/camrate/backend/headless"
	"github.com/valerio/go-camrate/camrate/input"
	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
)

// TestDebouncing verifies the flow Backend -> Events -> Handler -> Manager:
// rapid engine presses collapse into one, rate changes repeat freely.
func TestDebouncing(t *testing.T) {
	var queue []backend.InputEvent
	for i := 0; i < 5; i++ {
		queue = append(queue,
			backend.InputEvent{Action: action.EnginePauseToggle, Type: event.Press},
			backend.InputEvent{Action: action.CameraRateUp, Type: event.Press},
		)
	}

	handler := input.NewHandler()
	manager := input.NewManager()

	pauses, rateChanges := 0, 0
	manager.On(action.EnginePauseToggle, event.Press, func() { pauses++ })
	manager.On(action.CameraRateUp, event.Press, func() { rateChanges++ })

	for _, evt := range queue {
		if handler.ProcessEvent(evt.Action, evt.Type) {
			manager.Trigger(evt.Action, evt.Type)
		}
	}

	assert.Equal(t, 1, pauses, "Only first press should be processed, rest debounced")
	assert.Equal(t, 5, rateChanges, "Rate changes are never debounced")
}

func TestUnhandledActionsFallThrough(t *testing.T) {
	manager := input.NewManager()
	manager.On(action.EngineQuit, event.Press, func() {})

	assert.True(t, manager.Trigger(action.EngineQuit, event.Press))
	assert.False(t, manager.Trigger(action.EngineQuit, event.Release))
	assert.False(t, manager.Trigger(action.EngineSnapshot, event.Press), "left for the backend")
}

// TestHeadlessWithDebouncing tests the headless backend with input handler
func TestHeadlessWithDebouncing(t *testing.T) {
	b := headless.New(3, headless.SnapshotConfig{})

	err := b.Init(backend.BackendConfig{Title: "Test"})
	require.NoError(t, err)
	defer b.Cleanup()

	handler := input.NewHandler()
	frame := &backend.Frame{Cameras: []backend.CameraStatus{{Name: "main"}}}

	for i := 0; i < 3; i++ {
		frame.Tick = uint64(i + 1)
		events, err := b.Update(frame)
		require.NoError(t, err)

		if i == 2 {
			require.Len(t, events, 1, "Should have quit event on last tick")
			assert.Equal(t, action.EngineQuit, events[0].Action)
			assert.True(t, handler.ProcessEvent(events[0].Action, events[0].Type))
		} else {
			assert.Empty(t, events, "No events on non-final ticks")
		}
	}
}

func TestFrameSelectedCamera(t *testing.T) {
	var nilFrame *backend.Frame
	_, ok := nilFrame.SelectedCamera()
	assert.False(t, ok)

	frame := &backend.Frame{
		Selected: 1,
		Cameras:  []backend.CameraStatus{{Name: "main"}, {Name: "minimap"}},
	}
	cam, ok := frame.SelectedCamera()
	require.True(t, ok)
	assert.Equal(t, "minimap", cam.Name)

	frame.Selected = 2
	_, ok = frame.SelectedCamera()
	assert.False(t, ok)
}
