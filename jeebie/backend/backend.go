package backend

import (
	"log/slog"

	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/input/event"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// Presenter shows emulator frames. Present is fire and forget: it must not
// block the tick, and a presenter may drop any frame but the latest one.
type Presenter interface {
	Present(frame *video.FrameBuffer)
}

// Backend represents a complete front end platform (rendering + input).
// Backends are responsible for:
// - Showing the most recently presented frame on their specific output
// - Translating platform-specific input events to InputEvents
// - Handling backend-specific features (snapshots, log filtering)
type Backend interface {
	Presenter

	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update is called once per host tick after the engine ran. Backends should:
	// 1. Poll for platform-specific events (keyboard, window events, etc.)
	// 2. Draw the latest presented frame if the platform needs redrawing
	// 3. Return the translated input events
	Update() ([]InputEvent, error)

	// HandleAction processes actions the backend owns, such as snapshots.
	HandleAction(act action.Action)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is one translated platform input.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	Scale     int
	LogLevel  slog.Level
	Callbacks BackendCallbacks // Callbacks for backend communication
}

// BackendCallbacks allows backends to read engine state for display
type BackendCallbacks struct {
	// Status returns the pacing readout line (optional)
	Status func() string

	// RateHistory returns up to n recent tick rates, newest first (optional)
	RateHistory func(n int) []float64
}

// StatusText returns the status line or "" when no callback is set.
func (c BackendCallbacks) StatusText() string {
	if c.Status == nil {
		return ""
	}
	return c.Status()
}
