package input

import "github.com/valerio/go-camrate/camrate/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Selected camera
	"Up":    action.CameraRateUp,
	"Down":  action.CameraRateDown,
	"0":     action.CameraUnthrottle,
	"Tab":   action.CameraNext,
	"Right": action.CameraNext,
	"g":     action.CameraGateToggle,
	"c":     action.CameraSceneCycle,

	// Alternative rate keys
	"]": action.CameraRateUp,
	"[": action.CameraRateDown,

	// Engine controls
	"Space":  action.EnginePauseToggle,
	"p":      action.EnginePauseToggle, // Alternative key
	"n":      action.EngineStepTick,
	"F9":     action.EngineSnapshot,
	"Escape": action.EngineQuit,
	"q":      action.EngineQuit,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease, // Alternative without shift
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease, // Alternative with shift
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
