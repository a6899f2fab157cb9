// Package testpattern is a synthetic emulator: it paces frames and audio
// blocks by DMG cycle counts like real hardware would, draws test patterns
// and plays a tone, so the engine can run without a cartridge.
package testpattern

import (
	"log/slog"
	"math"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/driver"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

const amplitude = 0.25

const (
	patternCount    = 4
	animationFrames = 30 // frames between animation steps
	tileSize        = 8
	stripeWidth     = 4
	stripeSpeed     = 2
	diagonalSpeed   = 4
)

var patternNames = [patternCount]string{"checkerboard", "gradient", "stripes", "diagonal"}

// Config sets the audio produced by the emulator.
type Config struct {
	SampleRate  int
	BlockFrames int
	ToneHz      float64 // 0 for silent blocks
}

func DefaultConfig() Config {
	return Config{
		SampleRate:  audio.DefaultSampleRate,
		BlockFrames: audio.DefaultBlockFrames,
		ToneHz:      440,
	}
}

// Emulator displays test patterns without actual emulation
type Emulator struct {
	config Config

	frameBuffer      *video.FrameBuffer
	patternType      int
	animationCounter int

	cycles      float64 // emulated cycles so far
	nextFrame   float64 // cycle at which the next frame completes
	nextBlock   float64 // cycle at which the next audio block completes
	blockCycles float64

	phase   float64
	pressed map[action.Action]bool
}

func New(config Config) *Emulator {
	defaults := DefaultConfig()
	if config.SampleRate <= 0 {
		config.SampleRate = defaults.SampleRate
	}
	if config.BlockFrames <= 0 {
		config.BlockFrames = defaults.BlockFrames
	}
	e := &Emulator{
		config:      config,
		frameBuffer: video.NewFrameBuffer(),
		pressed:     make(map[action.Action]bool),
	}
	e.SetSampleRate(config.SampleRate)
	e.Reset()
	return e
}

// StepUntilEvent advances to whichever of the next frame or the next audio
// block completes first. A frame wins a tie.
func (e *Emulator) StepUntilEvent() driver.StepResult {
	if e.nextFrame <= e.nextBlock {
		e.cycles = e.nextFrame
		e.nextFrame += timing.CyclesPerFrame
		e.renderFrame()
		return driver.StepResult{Frame: e.frameBuffer}
	}

	e.cycles = e.nextBlock
	e.nextBlock += e.blockCycles
	return driver.StepResult{AudioBlocks: []audio.SampleBlock{e.renderBlock()}}
}

// SetSampleRate changes the output rate. Blocks keep their frame count, so
// their spacing in cycles changes.
func (e *Emulator) SetSampleRate(rate int) {
	if rate <= 0 {
		slog.Warn("Ignoring invalid sample rate", "rate", rate)
		return
	}
	e.config.SampleRate = rate
	e.blockCycles = float64(e.config.BlockFrames) * timing.CPUFrequency / float64(rate)
	e.nextBlock = e.cycles + e.blockCycles
}

// Reset returns to power on state.
func (e *Emulator) Reset() {
	e.cycles = 0
	e.nextFrame = timing.CyclesPerFrame
	e.nextBlock = e.blockCycles
	e.animationCounter = 0
	e.phase = 0
	e.patternType = 0
	e.generateTestPattern(0)
}

// Press holds a button. A raises the tone an octave, Start cycles patterns.
func (e *Emulator) Press(act action.Action) {
	if e.pressed[act] {
		return
	}
	e.pressed[act] = true
	if act == action.GBButtonStart {
		e.CyclePattern()
	}
}

func (e *Emulator) Release(act action.Action) {
	delete(e.pressed, act)
}

func (e *Emulator) CyclePattern() {
	e.patternType = (e.patternType + 1) % patternCount
	e.generateTestPattern(e.patternType)
	slog.Info("Switched to test pattern", "pattern", patternNames[e.patternType])
}

// Pattern returns the name of the current pattern.
func (e *Emulator) Pattern() string {
	return patternNames[e.patternType]
}

// Cycles returns the emulated cycle count.
func (e *Emulator) Cycles() float64 {
	return e.cycles
}

func (e *Emulator) renderFrame() {
	e.animationCounter++
	if e.animationCounter%animationFrames == 0 {
		e.animateTestPattern()
	}
}

func (e *Emulator) renderBlock() audio.SampleBlock {
	samples := make([]float32, e.config.BlockFrames*audio.Channels)
	hz := e.config.ToneHz
	if hz <= 0 {
		return audio.NewSampleBlock(samples)
	}
	if e.pressed[action.GBButtonA] {
		hz *= 2
	}

	step := 2 * math.Pi * hz / float64(e.config.SampleRate)
	for i := 0; i < e.config.BlockFrames; i++ {
		v := float32(amplitude * math.Sin(e.phase))
		samples[i*audio.Channels] = v
		samples[i*audio.Channels+1] = v
		e.phase += step
	}
	e.phase = math.Mod(e.phase, 2*math.Pi)
	return audio.NewSampleBlock(samples)
}

func (e *Emulator) generateTestPattern(patternType int) {
	e.drawPattern(patternType, 0)
}

func (e *Emulator) animateTestPattern() {
	e.drawPattern(e.patternType, e.animationCounter/animationFrames)
}

// drawPattern fills the frame with a pattern shifted by the animation step.
// Checkerboard and gradient are static.
func (e *Emulator) drawPattern(patternType, step int) {
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			var color video.GBColor
			switch patternType {
			case 0: // Checkerboard
				if ((x/tileSize)+(y/tileSize))%2 == 0 {
					color = video.WhiteColor
				} else {
					color = video.BlackColor
				}
			case 1: // Gradient, one DMG shade per quarter
				color = video.Shades[3-x*4/video.FramebufferWidth]
			case 2: // Vertical stripes
				if ((x+step*stripeSpeed)/stripeWidth)%2 == 0 {
					color = video.WhiteColor
				} else {
					color = video.DarkGreyColor
				}
			default: // Diagonal lines
				if ((x+y+step*diagonalSpeed)/tileSize)%2 == 0 {
					color = video.LightGreyColor
				} else {
					color = video.DarkGreyColor
				}
			}
			e.frameBuffer.SetPixel(uint(x), uint(y), color)
		}
	}
}
