package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
)

func TestHandler_Debouncing(t *testing.T) {
	tests := []struct {
		name           string
		action         action.Action
		eventType      event.Type
		timeBetween    time.Duration
		expectDebounce bool
	}{
		{
			name:           "engine action rapid press - should debounce",
			action:         action.EnginePauseToggle,
			eventType:      event.Press,
			timeBetween:    100 * time.Millisecond,
			expectDebounce: true,
		},
		{
			name:           "engine action slow press - should not debounce",
			action:         action.EnginePauseToggle,
			eventType:      event.Press,
			timeBetween:    400 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "camera rate rapid press - should not debounce",
			action:         action.CameraRateUp,
			eventType:      event.Press,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "release event - should not debounce",
			action:         action.EnginePauseToggle,
			eventType:      event.Release,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "hold event - should not debounce",
			action:         action.EngineSnapshot,
			eventType:      event.Hold,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler()
			clock := time.Unix(1000, 0)
			handler.now = func() time.Time { return clock }

			assert.True(t, handler.ProcessEvent(tt.action, tt.eventType), "First event should always pass")

			clock = clock.Add(tt.timeBetween)
			result := handler.ProcessEvent(tt.action, tt.eventType)

			if tt.expectDebounce {
				assert.False(t, result, "Second event should be debounced")
			} else {
				assert.True(t, result, "Second event should not be debounced")
			}
		})
	}
}

func TestHandler_MultipleActions(t *testing.T) {
	handler := NewHandler()

	assert.True(t, handler.ProcessEvent(action.EnginePauseToggle, event.Press))
	assert.True(t, handler.ProcessEvent(action.EngineSnapshot, event.Press), "different actions don't interfere")

	assert.False(t, handler.ProcessEvent(action.EnginePauseToggle, event.Press))
	assert.False(t, handler.ProcessEvent(action.EngineSnapshot, event.Press))
}

func TestManager(t *testing.T) {
	m := NewManager()
	var calls []string

	m.On(action.CameraRateUp, event.Press, func() { calls = append(calls, "up-1") })
	m.On(action.CameraRateUp, event.Press, func() { calls = append(calls, "up-2") })
	m.On(action.EngineQuit, event.Release, func() { calls = append(calls, "quit-release") })

	assert.True(t, m.Trigger(action.CameraRateUp, event.Press))
	assert.False(t, m.Trigger(action.EngineQuit, event.Press), "no callback for press")
	assert.True(t, m.Trigger(action.EngineQuit, event.Release))
	assert.False(t, m.Trigger(action.CameraNext, event.Press))

	assert.Equal(t, []string{"up-1", "up-2", "quit-release"}, calls)
}

func TestDefaultKeyMap(t *testing.T) {
	act, ok := GetDefaultMapping("q")
	assert.True(t, ok)
	assert.Equal(t, action.EngineQuit, act)

	_, ok = GetDefaultMapping("F1")
	assert.False(t, ok)

	for key, act := range DefaultKeyMap {
		assert.NotEqual(t, "Unknown", action.GetInfo(act).Description, "key %q maps to an undescribed action", key)
	}
}
