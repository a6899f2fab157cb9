package driver

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// scriptedEmulator produces a frame every frameEvery steps and one audio
// block on every step. Each step advances clock by stepCost.
type scriptedEmulator struct {
	clock      *timing.ManualClock
	stepCost   time.Duration
	frameEvery int
	endAfter   int // 0 means never

	steps  int
	blocks int
	frame  *video.FrameBuffer
}

func newScripted(clock *timing.ManualClock, stepCost time.Duration, frameEvery int) *scriptedEmulator {
	return &scriptedEmulator{
		clock:      clock,
		stepCost:   stepCost,
		frameEvery: frameEvery,
		frame:      video.NewFrameBuffer(),
	}
}

func (e *scriptedEmulator) StepUntilEvent() StepResult {
	if e.endAfter > 0 && e.steps >= e.endAfter {
		return StepResult{Ended: true}
	}
	e.steps++
	e.clock.Advance(e.stepCost)

	e.blocks++
	samples := make([]float32, 8)
	samples[0] = float32(e.blocks)
	res := StepResult{AudioBlocks: []audio.SampleBlock{audio.NewSampleBlock(samples)}}
	if e.frameEvery > 0 && e.steps%e.frameEvery == 0 {
		res.Frame = e.frame
	}
	return res
}

type framePresenter struct {
	frames []*video.FrameBuffer
}

func (p *framePresenter) Present(frame *video.FrameBuffer) {
	p.frames = append(p.frames, frame)
}

type blockRecorder struct {
	order []float32
	err   error
}

func (r *blockRecorder) Enqueue(block audio.SampleBlock) (audio.Placement, error) {
	r.order = append(r.order, block.Samples[0])
	if r.err != nil {
		return audio.Placement{}, r.err
	}
	return audio.Placement{Index: uint64(len(r.order)), HeadroomMs: 50}, nil
}

func TestOnTick_NormalStepsUntilFrame(t *testing.T) {
	clock := timing.NewManualClock()
	emu := newScripted(clock, time.Millisecond, 3)
	presenter := &framePresenter{}
	sched := &blockRecorder{}
	d := New(DefaultConfig(), emu, presenter, sched, clock)

	var observed []uint64
	d.OnBlock(func(p audio.Placement) { observed = append(observed, p.Index) })

	steps, err := d.OnTick(Controls{Mode: Normal, AudioEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Len(t, presenter.frames, 1)
	assert.Equal(t, []float32{1, 2, 3}, sched.order, "audio forwarded in arrival order")
	assert.Equal(t, []uint64{1, 2, 3}, observed)
	assert.Same(t, emu.frame, d.LastFrame())

	steps, err = d.OnTick(Controls{Mode: Normal, AudioEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, sched.order)
}

func TestOnTick_NormalAudioDisabled(t *testing.T) {
	clock := timing.NewManualClock()
	sched := &blockRecorder{}
	d := New(DefaultConfig(), newScripted(clock, time.Millisecond, 2), nil, sched, clock)

	steps, err := d.OnTick(Controls{Mode: Normal})
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Empty(t, sched.order)
}

func TestOnTick_NormalStepCap(t *testing.T) {
	clock := timing.NewManualClock()
	presenter := &framePresenter{}
	config := DefaultConfig()
	config.MaxStepsPerTick = 10
	d := New(config, newScripted(clock, 0, 0), presenter, nil, clock)

	steps, err := d.OnTick(Controls{Mode: Normal, AudioEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, 10, steps)
	assert.Empty(t, presenter.frames)
}

func TestOnTick_SchedulerErrorsDoNotStopStepping(t *testing.T) {
	clock := timing.NewManualClock()
	sched := &blockRecorder{err: audio.ErrDriftUnrecoverable}
	d := New(DefaultConfig(), newScripted(clock, time.Millisecond, 2), nil, sched, clock)

	called := false
	d.OnBlock(func(audio.Placement) { called = true })

	steps, err := d.OnTick(Controls{Mode: Normal, AudioEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Len(t, sched.order, 2)
	assert.False(t, called)
}

func TestOnTick_TurboIsTimeBoxed(t *testing.T) {
	tests := []struct {
		name          string
		stepCost      time.Duration
		expectedSteps int
	}{
		{"4ms steps", 4 * time.Millisecond, 5},
		{"1ms steps", time.Millisecond, 17},
		{"step longer than the period", 40 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := timing.NewManualClock()
			emu := newScripted(clock, tt.stepCost, 1)
			presenter := &framePresenter{}
			sched := &blockRecorder{}
			d := New(DefaultConfig(), emu, presenter, sched, clock)

			start := clock.Now()
			steps, err := d.OnTick(Controls{Mode: Turbo, AudioEnabled: true})
			require.NoError(t, err)

			assert.Equal(t, tt.expectedSteps, steps)
			assert.LessOrEqual(t, clock.Now()-start, timing.RefreshPeriod+tt.stepCost)
			assert.Empty(t, sched.order, "turbo does not forward audio")
			assert.Len(t, presenter.frames, 1, "only the last frame is presented")
		})
	}
}

func TestOnTick_Paused(t *testing.T) {
	clock := timing.NewManualClock()
	emu := newScripted(clock, time.Millisecond, 1)
	presenter := &framePresenter{}
	d := New(DefaultConfig(), emu, presenter, nil, clock)

	for _, mode := range []Mode{Normal, Turbo} {
		steps, err := d.OnTick(Controls{Mode: mode, Paused: true})
		require.NoError(t, err)
		assert.Zero(t, steps)
	}
	assert.Zero(t, emu.steps)
	assert.Empty(t, presenter.frames)
}

func TestOnTick_NotReadyReportedOnce(t *testing.T) {
	d := New(DefaultConfig(), nil, nil, nil, timing.NewManualClock())

	_, err := d.OnTick(Controls{})
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.True(t, d.Halted())

	for i := 0; i < 3; i++ {
		steps, err := d.OnTick(Controls{})
		assert.NoError(t, err)
		assert.Zero(t, steps)
	}

	clock := timing.NewManualClock()
	d.Rearm(newScripted(clock, time.Millisecond, 1))
	assert.False(t, d.Halted())
	steps, err := d.OnTick(Controls{})
	assert.NoError(t, err)
	assert.Equal(t, 1, steps)
}

func TestOnTick_EmulatorEnded(t *testing.T) {
	tests := []struct {
		name           string
		mode           Mode
		expectedSteps  int
		expectedFrames int
	}{
		{"normal", Normal, 2, 0},
		{"turbo presents what it has", Turbo, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := timing.NewManualClock()
			emu := newScripted(clock, time.Millisecond, 1)
			emu.frameEvery = 0
			if tt.mode == Turbo {
				emu.frameEvery = 1
			}
			emu.endAfter = 2
			presenter := &framePresenter{}
			config := DefaultConfig()
			config.MaxStepsPerTick = 100
			d := New(config, emu, presenter, nil, clock)

			steps, err := d.OnTick(Controls{Mode: tt.mode})
			assert.ErrorIs(t, err, ErrNotReady)
			assert.Equal(t, tt.expectedSteps, steps)
			assert.Len(t, presenter.frames, tt.expectedFrames)

			steps, err = d.OnTick(Controls{Mode: tt.mode})
			assert.NoError(t, err)
			assert.Zero(t, steps)

			// rearming the same emulator keeps it ended, which reports again
			d.Rearm(nil)
			_, err = d.OnTick(Controls{Mode: tt.mode})
			assert.ErrorIs(t, err, ErrNotReady)
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "turbo", Turbo.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
