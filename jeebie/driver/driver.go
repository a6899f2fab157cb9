// Package driver turns one host tick into a bounded amount of emulator
// progress and routes what the emulator produces to the presenter and the
// audio scheduler.
package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// ErrNotReady is returned once when there is nothing to step: no emulator is
// loaded or the emulator reported a fatal fault. The driver stays halted
// until Rearm.
var ErrNotReady = errors.New("emulator not ready")

// StepResult is what one StepUntilEvent call produced.
type StepResult struct {
	Frame       *video.FrameBuffer  // completed frame, nil if none
	AudioBlocks []audio.SampleBlock // blocks completed during the step, in order
	Ended       bool                // fatal fault, no further stepping possible
}

// Emulator advances emulated time until the next frame or audio block.
type Emulator interface {
	StepUntilEvent() StepResult
}

// BlockScheduler accepts audio blocks in arrival order.
type BlockScheduler interface {
	Enqueue(block audio.SampleBlock) (audio.Placement, error)
}

// Mode is the stepping policy.
type Mode int

const (
	Normal Mode = iota // one frame per tick, locked to the host refresh
	Turbo              // as many steps as fit in one refresh period
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Turbo:
		return "turbo"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Controls is the mode state, read once at the start of every tick.
type Controls struct {
	Mode         Mode
	Paused       bool
	AudioEnabled bool
}

// Config bounds the work done per tick.
type Config struct {
	RefreshPeriod   time.Duration // turbo time box
	MaxStepsPerTick int           // normal mode cap for emulators that never finish a frame
}

func DefaultConfig() Config {
	return Config{
		RefreshPeriod:   timing.RefreshPeriod,
		MaxStepsPerTick: 256,
	}
}

// Driver owns the emulator handle for one load. It is replaced, not reset,
// when a new emulator is loaded.
type Driver struct {
	config    Config
	emu       Emulator
	presenter backend.Presenter
	scheduler BlockScheduler
	clock     timing.Clock

	onBlock func(audio.Placement)

	halted    bool
	lastFrame *video.FrameBuffer
	capWarned bool
}

// New creates a driver. emu may be nil, in which case the first tick
// reports ErrNotReady. presenter and scheduler may be nil to discard video
// or audio.
func New(config Config, emu Emulator, presenter backend.Presenter, scheduler BlockScheduler, clock timing.Clock) *Driver {
	if config.RefreshPeriod <= 0 {
		config.RefreshPeriod = timing.RefreshPeriod
	}
	if config.MaxStepsPerTick < 1 {
		config.MaxStepsPerTick = 1
	}
	if clock == nil {
		clock = timing.NewWallClock()
	}
	return &Driver{
		config:    config,
		emu:       emu,
		presenter: presenter,
		scheduler: scheduler,
		clock:     clock,
	}
}

// OnBlock registers fn to observe every placement the scheduler accepted.
func (d *Driver) OnBlock(fn func(audio.Placement)) {
	d.onBlock = fn
}

// OnTick runs one host tick under c and returns the number of completed
// emulator steps.
func (d *Driver) OnTick(c Controls) (int, error) {
	if d.halted {
		return 0, nil
	}
	if d.emu == nil {
		return 0, d.halt("no emulator loaded")
	}
	if c.Paused {
		return 0, nil
	}

	switch c.Mode {
	case Turbo:
		return d.runTurbo()
	default:
		return d.runNormal(c.AudioEnabled)
	}
}

// runNormal steps until the emulator completes a frame.
func (d *Driver) runNormal(audioEnabled bool) (int, error) {
	steps := 0
	for steps < d.config.MaxStepsPerTick {
		res := d.emu.StepUntilEvent()
		if res.Ended {
			return steps, d.halt("emulator ended")
		}
		steps++

		if audioEnabled {
			d.forwardAudio(res.AudioBlocks)
		}
		if res.Frame != nil {
			d.present(res.Frame)
			return steps, nil
		}
	}

	if !d.capWarned {
		d.capWarned = true
		slog.Warn("No frame within step cap, yielding", "steps", steps)
	}
	return steps, nil
}

// runTurbo steps while the tick is within one refresh period. The check
// happens before each step, so a tick overruns the period by at most one
// step. Audio is not forwarded.
func (d *Driver) runTurbo() (int, error) {
	tickStart := d.clock.Now()
	steps := 0
	var last *video.FrameBuffer

	for d.clock.Now()-tickStart <= d.config.RefreshPeriod {
		res := d.emu.StepUntilEvent()
		if res.Ended {
			if last != nil {
				d.present(last)
			}
			return steps, d.halt("emulator ended")
		}
		steps++
		if res.Frame != nil {
			last = res.Frame
		}
	}

	if last != nil {
		d.present(last)
	}
	return steps, nil
}

func (d *Driver) forwardAudio(blocks []audio.SampleBlock) {
	if d.scheduler == nil {
		return
	}
	for _, block := range blocks {
		p, err := d.scheduler.Enqueue(block)
		if err != nil {
			// the scheduler has already recovered, either by dropping the
			// block or by going silent
			slog.Debug("Audio block not scheduled", "error", err)
			continue
		}
		if d.onBlock != nil && !p.Silent {
			d.onBlock(p)
		}
	}
}

func (d *Driver) present(frame *video.FrameBuffer) {
	d.lastFrame = frame
	if d.presenter != nil {
		d.presenter.Present(frame)
	}
}

func (d *Driver) halt(reason string) error {
	d.halted = true
	slog.Warn("Stepping halted", "reason", reason)
	return fmt.Errorf("%w: %s", ErrNotReady, reason)
}

// Rearm resumes a halted driver, optionally with a different emulator.
// A nil emu keeps the current one.
func (d *Driver) Rearm(emu Emulator) {
	if emu != nil {
		d.emu = emu
	}
	d.halted = false
	d.capWarned = false
}

// Halted reports whether the driver stopped after ErrNotReady.
func (d *Driver) Halted() bool {
	return d.halted
}

// LastFrame returns the most recently presented frame, nil before the first.
func (d *Driver) LastFrame() *video.FrameBuffer {
	return d.lastFrame
}
