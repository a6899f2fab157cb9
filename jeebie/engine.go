package jeebie

import (
	"log/slog"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/driver"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/pacing"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

// SinkFactory opens an output sink for one emulator load.
type SinkFactory func(sampleRate int) (audio.OutputSink, error)

// Config groups the settings of every engine component.
type Config struct {
	Audio  audio.Config
	Driver driver.Config
	Pacing pacing.Config
}

func DefaultConfig() Config {
	return Config{
		Audio:  audio.DefaultConfig(),
		Driver: driver.DefaultConfig(),
		Pacing: pacing.DefaultConfig(),
	}
}

// Engine owns everything that lives for one emulator load: the emulator
// handle, the stepping driver, the audio scheduler with its sink, and the
// pacing monitor. Load replaces all of them together.
type Engine struct {
	config    Config
	clock     timing.Clock
	presenter backend.Presenter
	newSink   SinkFactory

	emu       Emulator
	driver    *driver.Driver
	scheduler *audio.Scheduler
	monitor   *pacing.Monitor

	controls driver.Controls
}

// NewEngine creates an engine with nothing loaded. newSink may be nil for
// an engine without audio output.
func NewEngine(config Config, presenter backend.Presenter, newSink SinkFactory, clock timing.Clock) *Engine {
	if clock == nil {
		clock = timing.NewWallClock()
	}
	e := &Engine{
		config:    config,
		clock:     clock,
		presenter: presenter,
		newSink:   newSink,
		controls:  driver.Controls{Mode: driver.Normal, AudioEnabled: true},
	}
	e.monitor = pacing.NewMonitor(config.Pacing, clock)
	e.driver = driver.New(config.Driver, nil, presenter, nil, clock)
	return e
}

// Load replaces the emulator and starts a fresh schedule and pacing window.
func (e *Engine) Load(emu Emulator) {
	e.closeScheduler()

	var sink audio.OutputSink
	if e.newSink != nil {
		s, err := e.newSink(e.config.Audio.SampleRate)
		if err != nil {
			slog.Warn("Audio output unavailable", "error", err)
		} else {
			sink = s
		}
	}

	if setter, ok := emu.(SampleRateSetter); ok {
		setter.SetSampleRate(e.config.Audio.SampleRate)
	}

	e.emu = emu
	e.scheduler = audio.NewScheduler(e.config.Audio, sink, e.clock)
	e.monitor = pacing.NewMonitor(e.config.Pacing, e.clock)
	e.driver = driver.New(e.config.Driver, emu, e.presenter, e.scheduler, e.clock)
	e.driver.OnBlock(func(p audio.Placement) {
		e.monitor.ObserveAudio(p.HeadroomMs)
	})

	// a nil sink is already logged by the scheduler
	_ = e.scheduler.Start()

	slog.Info("Emulator loaded", "mode", e.controls.Mode, "audio", e.controls.AudioEnabled)
}

// Reset restarts the loaded emulator and re-arms stepping with a fresh
// schedule.
func (e *Engine) Reset() {
	if e.emu == nil {
		e.driver.Rearm(nil)
		return
	}
	if r, ok := e.emu.(Resetter); ok {
		r.Reset()
	}
	e.Load(e.emu)
}

// Tick runs one host tick with the mode state as of its start.
func (e *Engine) Tick() (pacing.Sample, error) {
	c := e.controls
	e.monitor.SetModes(c.Mode == driver.Turbo, c.AudioEnabled)

	steps, err := e.driver.OnTick(c)
	if c.Paused || e.driver.Halted() {
		if c.Paused && e.presenter != nil {
			if frame := e.driver.LastFrame(); frame != nil {
				e.presenter.Present(frame)
			}
		}
		return e.monitor.Idle(), err
	}
	return e.monitor.Sample(steps), err
}

func (e *Engine) SetPaused(paused bool) {
	if e.controls.Paused == paused {
		return
	}
	e.controls.Paused = paused
	slog.Info("Paused changed", "paused", paused)
}

func (e *Engine) SetTurbo(turbo bool) {
	mode := driver.Normal
	if turbo {
		mode = driver.Turbo
	}
	if e.controls.Mode == mode {
		return
	}
	e.controls.Mode = mode
	slog.Info("Stepping mode changed", "mode", mode)
}

func (e *Engine) SetAudioEnabled(enabled bool) {
	if e.controls.AudioEnabled == enabled {
		return
	}
	e.controls.AudioEnabled = enabled
	slog.Info("Audio changed", "enabled", enabled)
}

func (e *Engine) TogglePause() { e.SetPaused(!e.controls.Paused) }

func (e *Engine) ToggleTurbo() { e.SetTurbo(e.controls.Mode != driver.Turbo) }

func (e *Engine) ToggleAudio() { e.SetAudioEnabled(!e.controls.AudioEnabled) }

// Controls returns the current mode state.
func (e *Engine) Controls() driver.Controls {
	return e.controls
}

// PacingSample returns the latest timing readout.
func (e *Engine) PacingSample() pacing.Sample {
	return e.monitor.Current()
}

// RateHistory returns up to n recent tick rates, newest first.
func (e *Engine) RateHistory(n int) []float64 {
	return e.monitor.Rates(n)
}

// Press forwards a button press to the emulator, if it takes input.
func (e *Engine) Press(act action.Action) {
	if h, ok := e.emu.(ButtonHandler); ok {
		h.Press(act)
	}
}

// Release forwards a button release to the emulator, if it takes input.
func (e *Engine) Release(act action.Action) {
	if h, ok := e.emu.(ButtonHandler); ok {
		h.Release(act)
	}
}

// Emulator returns the loaded emulator, nil before Load.
func (e *Engine) Emulator() Emulator {
	return e.emu
}

// Scheduler returns the audio scheduler of the current load, nil before Load.
func (e *Engine) Scheduler() *audio.Scheduler {
	return e.scheduler
}

// Close releases the audio sink.
func (e *Engine) Close() error {
	if e.scheduler == nil {
		return nil
	}
	err := e.scheduler.Close()
	e.scheduler = nil
	return err
}

func (e *Engine) closeScheduler() {
	if e.scheduler == nil {
		return
	}
	if err := e.scheduler.Close(); err != nil {
		slog.Warn("Failed to close audio sink", "error", err)
	}
}
