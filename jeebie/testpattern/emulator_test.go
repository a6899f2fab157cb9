package testpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

func TestStepUntilEvent_InterleavesByCycle(t *testing.T) {
	e := New(DefaultConfig())

	frames, blocks := 0, 0
	last := 0.0
	for i := 0; i < 105; i++ {
		res := e.StepUntilEvent()
		require.False(t, res.Ended)

		// exactly one event per step
		if res.Frame != nil {
			assert.Empty(t, res.AudioBlocks)
			frames++
		} else {
			require.Len(t, res.AudioBlocks, 1)
			blocks++
		}

		assert.Greater(t, e.Cycles(), last)
		last = e.Cycles()
	}

	// one emulated second holds 59 whole frames and 46 whole blocks
	assert.Equal(t, 59, frames)
	assert.Equal(t, 46, blocks)
	assert.LessOrEqual(t, e.Cycles(), float64(timing.CPUFrequency))
}

func TestStepUntilEvent_FirstEvents(t *testing.T) {
	e := New(DefaultConfig())

	res := e.StepUntilEvent()
	assert.NotNil(t, res.Frame)
	assert.Equal(t, float64(timing.CyclesPerFrame), e.Cycles())

	res = e.StepUntilEvent()
	require.Len(t, res.AudioBlocks, 1)
	assert.InDelta(t, 1024*4194304/48000.0, e.Cycles(), 1e-6)
	assert.Equal(t, 1024, res.AudioBlocks[0].Frames())
	assert.True(t, res.AudioBlocks[0].Valid())
}

func TestRenderBlock(t *testing.T) {
	tests := []struct {
		name   string
		toneHz float64
		silent bool
	}{
		{"tone", 440, false},
		{"silent", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.ToneHz = tt.toneHz
			e := New(config)

			block := e.renderBlock()
			require.Len(t, block.Samples, 1024*audio.Channels)

			peak := float32(0)
			for i, s := range block.Samples {
				if s > peak {
					peak = s
				}
				if i%2 == 1 {
					assert.Equal(t, block.Samples[i-1], s, "both channels carry the tone")
				}
			}
			if tt.silent {
				assert.Zero(t, peak)
			} else {
				assert.InDelta(t, amplitude, peak, 0.01)
			}
		})
	}
}

func TestSetSampleRate_ChangesBlockSpacing(t *testing.T) {
	e := New(DefaultConfig())
	e.SetSampleRate(24000)
	assert.InDelta(t, 1024*4194304/24000.0, e.blockCycles, 1e-6)

	e.SetSampleRate(0)
	assert.InDelta(t, 1024*4194304/24000.0, e.blockCycles, 1e-6, "invalid rates are ignored")
}

func TestButtons(t *testing.T) {
	e := New(DefaultConfig())
	require.Equal(t, "checkerboard", e.Pattern())
	assert.Equal(t, uint32(video.WhiteColor), e.frameBuffer.GetPixel(0, 0))

	e.Press(action.GBButtonStart)
	e.Press(action.GBButtonStart) // held, no repeat
	assert.Equal(t, "gradient", e.Pattern())
	assert.Equal(t, uint32(video.BlackColor), e.frameBuffer.GetPixel(0, 0))

	e.Release(action.GBButtonStart)
	e.Press(action.GBButtonStart)
	assert.Equal(t, "stripes", e.Pattern())

	e.Press(action.GBButtonA)
	assert.True(t, e.pressed[action.GBButtonA])
	e.Release(action.GBButtonA)
	assert.False(t, e.pressed[action.GBButtonA])
}

func TestReset(t *testing.T) {
	e := New(DefaultConfig())
	e.CyclePattern()
	for i := 0; i < 10; i++ {
		e.StepUntilEvent()
	}

	e.Reset()
	assert.Zero(t, e.Cycles())
	assert.Equal(t, "checkerboard", e.Pattern())
	res := e.StepUntilEvent()
	assert.NotNil(t, res.Frame)
}
