package action

// Action represents input actions that can be performed on the running engine
type Action int

const (
	// Selected camera controls
	CameraRateUp Action = iota
	CameraRateDown
	CameraUnthrottle
	CameraNext
	CameraGateToggle
	CameraSceneCycle

	// Engine features
	EnginePauseToggle
	EngineStepTick
	EngineSnapshot
	EngineQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by what they affect.
type Category int

const (
	CategoryCamera Category = iota
	CategoryEngine
	CategoryDebug
)

// Info describes an action for logs and help screens.
type Info struct {
	Description string
	Category    Category
}

var actionInfo = map[Action]Info{
	CameraRateUp:          {"Raise target rate", CategoryCamera},
	CameraRateDown:        {"Lower target rate", CategoryCamera},
	CameraUnthrottle:      {"Unthrottle camera", CategoryCamera},
	CameraNext:            {"Select next camera", CategoryCamera},
	CameraGateToggle:      {"Attach/detach rate gate", CategoryCamera},
	CameraSceneCycle:      {"Cycle camera scene", CategoryCamera},
	EnginePauseToggle:     {"Pause/resume", CategoryEngine},
	EngineStepTick:        {"Step one tick", CategoryEngine},
	EngineSnapshot:        {"Save snapshot", CategoryEngine},
	EngineQuit:            {"Quit", CategoryEngine},
	DebugLogLevelIncrease: {"More verbose logs", CategoryDebug},
	DebugLogLevelDecrease: {"Less verbose logs", CategoryDebug},
}

// GetInfo returns the description of act.
func GetInfo(act Action) Info {
	if info, ok := actionInfo[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryDebug}
}
