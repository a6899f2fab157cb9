package jeebie

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/audio/sink"
	"github.com/valerio/go-jeebie-av/jeebie/driver"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/testpattern"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

type countingPresenter struct {
	frames []*video.FrameBuffer
}

func (p *countingPresenter) Present(frame *video.FrameBuffer) {
	p.frames = append(p.frames, frame)
}

// clockedEmulator advances the clock on every step so turbo ticks end.
type clockedEmulator struct {
	*testpattern.Emulator
	clock *timing.ManualClock
	cost  time.Duration
}

func (c *clockedEmulator) StepUntilEvent() StepResult {
	c.clock.Advance(c.cost)
	return c.Emulator.StepUntilEvent()
}

type buttonEmulator struct {
	pressed, released []action.Action
	rate              int
}

func (b *buttonEmulator) StepUntilEvent() StepResult {
	return StepResult{Frame: video.NewFrameBuffer()}
}
func (b *buttonEmulator) Press(act action.Action)   { b.pressed = append(b.pressed, act) }
func (b *buttonEmulator) Release(act action.Action) { b.released = append(b.released, act) }
func (b *buttonEmulator) SetSampleRate(rate int)    { b.rate = rate }

type testEngine struct {
	engine    *Engine
	clock     *timing.ManualClock
	presenter *countingPresenter
	sinks     []*sink.Recorder
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	te := &testEngine{
		clock:     timing.NewManualClock(),
		presenter: &countingPresenter{},
	}
	config := DefaultConfig()
	config.Audio.HighpassHz = 0
	te.engine = NewEngine(config, te.presenter, func(int) (audio.OutputSink, error) {
		rec := sink.NewRecorder(te.clock)
		te.sinks = append(te.sinks, rec)
		return rec, nil
	}, te.clock)
	return te
}

func TestEngine_TickBeforeLoad(t *testing.T) {
	te := newTestEngine(t)

	sample, err := te.engine.Tick()
	assert.True(t, errors.Is(err, driver.ErrNotReady))
	assert.Zero(t, sample.InstantaneousRate)

	_, err = te.engine.Tick()
	assert.NoError(t, err, "not ready is reported once")
}

func TestEngine_NormalTicksFeedVideoAndAudio(t *testing.T) {
	te := newTestEngine(t)
	te.engine.Load(testpattern.New(testpattern.DefaultConfig()))
	require.Len(t, te.sinks, 1)

	// priming block
	require.Len(t, te.sinks[0].Spans(), 1)
	assert.InDelta(t, 0.05, te.sinks[0].Starts()[0], 1e-9)

	for i := 0; i < 60; i++ {
		te.clock.Advance(timing.RefreshPeriod)
		sample, err := te.engine.Tick()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sample.Steps, 1)
	}

	assert.Len(t, te.presenter.frames, 60, "one frame per normal tick")

	// 60 frames span 60*70224 cycles, 47 whole blocks fit in that
	spans := te.sinks[0].Spans()
	assert.Len(t, spans, 1+47)
	for i := 1; i < len(spans); i++ {
		assert.GreaterOrEqual(t, spans[i].Start, spans[i-1].Start)
	}

	sample := te.engine.PacingSample()
	assert.InDelta(t, 60, sample.InstantaneousRate, 1e-3)
	assert.InDelta(t, 60, sample.RollingMeanRate, 1e-3)
	assert.True(t, sample.AudioEnabled)
	assert.False(t, sample.Turbo)
	assert.NotZero(t, sample.AudioOffsetMs, "refreshed after 30 blocks")
	assert.Len(t, te.engine.RateHistory(10), 10)
}

func TestEngine_PauseRepresentsLastFrame(t *testing.T) {
	te := newTestEngine(t)
	emu := testpattern.New(testpattern.DefaultConfig())
	te.engine.Load(emu)

	te.clock.Advance(timing.RefreshPeriod)
	_, err := te.engine.Tick()
	require.NoError(t, err)
	require.Len(t, te.presenter.frames, 1)

	te.engine.TogglePause()
	assert.True(t, te.engine.Controls().Paused)

	cycles := emu.Cycles()
	for i := 0; i < 3; i++ {
		te.clock.Advance(timing.RefreshPeriod)
		sample, err := te.engine.Tick()
		require.NoError(t, err)
		assert.True(t, sample.Paused)
		assert.Zero(t, sample.InstantaneousRate)
		assert.Zero(t, sample.Steps)
	}
	assert.Equal(t, cycles, emu.Cycles(), "paused engine does not step")
	assert.Len(t, te.presenter.frames, 4)
	assert.Same(t, te.presenter.frames[0], te.presenter.frames[3])

	te.engine.SetPaused(false)
	te.clock.Advance(timing.RefreshPeriod)
	sample, err := te.engine.Tick()
	require.NoError(t, err)
	assert.False(t, sample.Paused)
	assert.Zero(t, sample.InstantaneousRate, "the paused gap is not a rate sample")
}

func TestEngine_TurboSkipsAudio(t *testing.T) {
	te := newTestEngine(t)
	emu := &clockedEmulator{
		Emulator: testpattern.New(testpattern.DefaultConfig()),
		clock:    te.clock,
		cost:     time.Millisecond,
	}
	te.engine.Load(emu)
	te.engine.ToggleTurbo()
	require.Equal(t, driver.Turbo, te.engine.Controls().Mode)

	sample, err := te.engine.Tick()
	require.NoError(t, err)
	assert.Equal(t, 17, sample.Steps)
	assert.True(t, sample.Turbo)
	assert.Len(t, te.presenter.frames, 1)
	assert.Len(t, te.sinks[0].Spans(), 1, "only the priming block")

	te.engine.SetTurbo(false)
	assert.Equal(t, driver.Normal, te.engine.Controls().Mode)
}

func TestEngine_AudioToggle(t *testing.T) {
	te := newTestEngine(t)
	te.engine.Load(testpattern.New(testpattern.DefaultConfig()))
	te.engine.ToggleAudio()
	assert.False(t, te.engine.Controls().AudioEnabled)

	for i := 0; i < 10; i++ {
		_, err := te.engine.Tick()
		require.NoError(t, err)
	}
	assert.Len(t, te.sinks[0].Spans(), 1)
	assert.Len(t, te.presenter.frames, 10)
	assert.False(t, te.engine.PacingSample().AudioEnabled)
}

func TestEngine_LoadReplacesEverything(t *testing.T) {
	te := newTestEngine(t)
	te.engine.Load(testpattern.New(testpattern.DefaultConfig()))
	for i := 0; i < 5; i++ {
		te.clock.Advance(timing.RefreshPeriod)
		_, _ = te.engine.Tick()
	}
	first := te.engine.Scheduler()
	require.Greater(t, first.Cursor().BlockIndex, uint64(1))

	te.engine.Load(testpattern.New(testpattern.DefaultConfig()))
	require.Len(t, te.sinks, 2)
	assert.True(t, te.sinks[0].Closed())
	assert.NotSame(t, first, te.engine.Scheduler())
	assert.Equal(t, uint64(1), te.engine.Scheduler().Cursor().BlockIndex)
	assert.Zero(t, te.engine.PacingSample().RollingMeanRate)
}

func TestEngine_ResetRestartsEmulator(t *testing.T) {
	te := newTestEngine(t)
	emu := testpattern.New(testpattern.DefaultConfig())
	te.engine.Load(emu)
	for i := 0; i < 3; i++ {
		_, _ = te.engine.Tick()
	}
	require.NotZero(t, emu.Cycles())

	te.engine.Reset()
	assert.Zero(t, emu.Cycles())
	assert.Same(t, emu, te.engine.Emulator())
	assert.Len(t, te.sinks, 2)
}

func TestEngine_ForwardsButtonsAndSampleRate(t *testing.T) {
	te := newTestEngine(t)
	emu := &buttonEmulator{}

	te.engine.Press(action.GBButtonA) // nothing loaded, ignored
	te.engine.Load(emu)
	assert.Equal(t, audio.DefaultSampleRate, emu.rate)

	te.engine.Press(action.GBButtonA)
	te.engine.Release(action.GBButtonA)
	assert.Equal(t, []action.Action{action.GBButtonA}, emu.pressed)
	assert.Equal(t, []action.Action{action.GBButtonA}, emu.released)
}

func TestEngine_SinkFailureKeepsVideo(t *testing.T) {
	presenter := &countingPresenter{}
	clock := timing.NewManualClock()
	e := NewEngine(DefaultConfig(), presenter, func(int) (audio.OutputSink, error) {
		return nil, audio.ErrSinkUnavailable
	}, clock)
	e.Load(testpattern.New(testpattern.DefaultConfig()))

	for i := 0; i < 5; i++ {
		_, err := e.Tick()
		require.NoError(t, err)
	}
	assert.True(t, e.Scheduler().Silent())
	assert.Len(t, presenter.frames, 5)
	assert.NoError(t, e.Close())
}
