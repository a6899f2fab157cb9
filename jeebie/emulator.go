package jeebie

import (
	"github.com/valerio/go-jeebie-av/jeebie/driver"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
)

// Emulator is the opaque core the engine steps. StepUntilEvent returns at
// the next natural sync point: a completed frame or audio block.
type Emulator = driver.Emulator

// StepResult is what one step produced.
type StepResult = driver.StepResult

// ButtonHandler is implemented by emulators that accept button input.
type ButtonHandler interface {
	Press(act action.Action)
	Release(act action.Action)
}

// SampleRateSetter is implemented by emulators whose audio output rate can
// be set. The engine calls it on load with the scheduler's rate.
type SampleRateSetter interface {
	SetSampleRate(rate int)
}

// Resetter is implemented by emulators that can restart from power on.
type Resetter interface {
	Reset()
}
