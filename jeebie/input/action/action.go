package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Game Boy hardware controls
	GBButtonA Action = iota
	GBButtonB
	GBButtonStart
	GBButtonSelect
	GBDPadUp
	GBDPadDown
	GBDPadLeft
	GBDPadRight

	// Engine mode controls
	EmulatorPauseToggle
	EmulatorTurboToggle
	EmulatorAudioToggle
	EmulatorReset

	// Front end features
	EmulatorSnapshot
	EmulatorTestPatternCycle
	EmulatorQuit

	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryGameInput Category = iota // forwarded to the emulator as press/release
	CategoryEmulator                  // engine mode controls and lifecycle
	CategoryDebug                     // backend-local diagnostics
)

// Info describes an action for logs and help text.
type Info struct {
	Description string
	Category    Category
}

var infos = map[Action]Info{
	GBButtonA:      {"A", CategoryGameInput},
	GBButtonB:      {"B", CategoryGameInput},
	GBButtonStart:  {"Start", CategoryGameInput},
	GBButtonSelect: {"Select", CategoryGameInput},
	GBDPadUp:       {"Up", CategoryGameInput},
	GBDPadDown:     {"Down", CategoryGameInput},
	GBDPadLeft:     {"Left", CategoryGameInput},
	GBDPadRight:    {"Right", CategoryGameInput},

	EmulatorPauseToggle:      {"Pause/resume", CategoryEmulator},
	EmulatorTurboToggle:      {"Turbo", CategoryEmulator},
	EmulatorAudioToggle:      {"Audio on/off", CategoryEmulator},
	EmulatorReset:            {"Reset", CategoryEmulator},
	EmulatorSnapshot:         {"Snapshot", CategoryEmulator},
	EmulatorTestPatternCycle: {"Cycle test pattern", CategoryEmulator},
	EmulatorQuit:             {"Quit", CategoryEmulator},

	DebugLogLevelIncrease: {"More logs", CategoryDebug},
	DebugLogLevelDecrease: {"Fewer logs", CategoryDebug},
}

// GetInfo returns the description and category of act.
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Description: "Unknown", Category: CategoryDebug}
}

// IsGameInput reports whether act is a Game Boy button.
func IsGameInput(act Action) bool {
	return GetInfo(act).Category == CategoryGameInput
}
