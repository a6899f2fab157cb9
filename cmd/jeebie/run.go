package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-jeebie-av/jeebie"
	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/audio/sink"
	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/backend/headless"
	"github.com/valerio/go-jeebie-av/jeebie/backend/sdl2"
	"github.com/valerio/go-jeebie-av/jeebie/backend/terminal"
	"github.com/valerio/go-jeebie-av/jeebie/driver"
	"github.com/valerio/go-jeebie-av/jeebie/input"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/input/event"
	"github.com/valerio/go-jeebie-av/jeebie/statsview"
	"github.com/valerio/go-jeebie-av/jeebie/testpattern"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

// options is the validated command line.
type options struct {
	backend          string
	frames           int
	scale            int
	limiter          string
	turbo            bool
	mute             bool
	audioOut         string
	wavPath          string
	audio            audio.Config
	toneHz           float64
	snapshotInterval int
	snapshotDir      string
	logLevel         slog.Level
	statsview        bool
}

func parseOptions(c *cli.Context) (options, error) {
	o := options{
		backend:          c.String("backend"),
		frames:           c.Int("frames"),
		scale:            c.Int("scale"),
		limiter:          c.String("limiter"),
		turbo:            c.Bool("turbo"),
		mute:             c.Bool("mute"),
		audioOut:         c.String("audio"),
		wavPath:          c.String("wav-out"),
		toneHz:           c.Float64("tone-hz"),
		snapshotInterval: c.Int("snapshot-interval"),
		snapshotDir:      c.String("snapshot-dir"),
		statsview:        c.Bool("statsview"),
		audio: audio.Config{
			SampleRate:  c.Int("sample-rate"),
			BlockFrames: c.Int("block-frames"),
			BaseDelay:   c.Float64("base-delay"),
			HighpassHz:  c.Float64("highpass-hz"),
		},
	}

	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return o, err
	}
	o.logLevel = level

	return o, o.validate()
}

func (o options) validate() error {
	switch o.backend {
	case "terminal", "headless", "sdl2":
	default:
		return fmt.Errorf("unknown backend %q", o.backend)
	}
	switch o.audioOut {
	case "oto", "wav", "none":
	default:
		return fmt.Errorf("unknown audio output %q", o.audioOut)
	}
	if o.audio.SampleRate <= 0 {
		return errors.New("--sample-rate must be positive")
	}
	if o.audio.BlockFrames <= 0 {
		return errors.New("--block-frames must be positive")
	}
	if o.audio.BaseDelay < 0 {
		return errors.New("--base-delay must not be negative")
	}
	if o.frames < 0 || o.snapshotInterval < 0 || o.scale < 0 {
		return errors.New("--frames, --scale and --snapshot-interval must not be negative")
	}
	if o.audioOut == "wav" && o.wavPath == "" {
		return errors.New("--audio wav requires --wav-out")
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// sinkFactory returns the opener for the selected audio output, nil for none.
func sinkFactory(o options) jeebie.SinkFactory {
	switch o.audioOut {
	case "oto":
		return func(rate int) (audio.OutputSink, error) {
			return sink.NewOtoSink(rate)
		}
	case "wav":
		return func(rate int) (audio.OutputSink, error) {
			return sink.NewWAVSink(o.wavPath, rate, timing.NewWallClock())
		}
	default:
		return nil
	}
}

func newBackend(o options) (backend.Backend, error) {
	switch o.backend {
	case "headless":
		snapshots, err := headless.CreateSnapshotConfig(o.snapshotInterval, o.snapshotDir, "testpattern")
		if err != nil {
			return nil, err
		}
		return headless.New(o.frames, snapshots), nil
	case "sdl2":
		return sdl2.New(), nil
	default:
		return terminal.New(), nil
	}
}

func runEmulator(c *cli.Context) error {
	o, err := parseOptions(c)
	if err != nil {
		cli.ShowAppHelp(c)
		return err
	}

	be, err := newBackend(o)
	if err != nil {
		return err
	}

	config := jeebie.DefaultConfig()
	config.Audio = o.audio
	engine := jeebie.NewEngine(config, be, sinkFactory(o), timing.NewWallClock())

	if err := be.Init(backend.BackendConfig{
		Title:    "jeebie",
		Scale:    o.scale,
		LogLevel: o.logLevel,
		Callbacks: backend.BackendCallbacks{
			Status:      func() string { return engine.PacingSample().String() },
			RateHistory: engine.RateHistory,
		},
	}); err != nil {
		return err
	}
	defer be.Cleanup()

	if o.statsview {
		statsview.Launch(statsview.DefaultAddress)
	}

	limiter, err := timing.NewLimiter(o.limiter, timing.RefreshPeriod)
	if err != nil {
		return err
	}

	emu := testpattern.New(testpattern.Config{
		SampleRate:  o.audio.SampleRate,
		BlockFrames: o.audio.BlockFrames,
		ToneHz:      o.toneHz,
	})
	engine.Load(emu)
	defer func() {
		if err := engine.Close(); err != nil {
			slog.Warn("Failed to close audio output", "error", err)
		}
	}()
	engine.SetTurbo(o.turbo)
	engine.SetAudioEnabled(!o.mute)

	h := &host{engine: engine, backend: be, limiter: limiter, running: true}
	h.bind(input.NewManager(engine), emu)
	return h.run()
}

// host is the tick loop around the engine.
type host struct {
	engine  *jeebie.Engine
	backend backend.Backend
	limiter timing.Limiter
	inputs  *input.Manager
	running bool
}

func (h *host) bind(m *input.Manager, emu *testpattern.Emulator) {
	h.inputs = m
	m.On(action.EmulatorPauseToggle, event.Press, h.engine.TogglePause)
	m.On(action.EmulatorTurboToggle, event.Press, h.engine.ToggleTurbo)
	m.On(action.EmulatorAudioToggle, event.Press, h.engine.ToggleAudio)
	m.On(action.EmulatorReset, event.Press, func() {
		h.engine.Reset()
		h.limiter.Reset()
	})
	m.On(action.EmulatorTestPatternCycle, event.Press, emu.CyclePattern)
	m.On(action.EmulatorQuit, event.Press, func() { h.running = false })
	for _, act := range []action.Action{
		action.EmulatorSnapshot,
		action.DebugLogLevelIncrease,
		action.DebugLogLevelDecrease,
	} {
		m.On(act, event.Press, func() { h.backend.HandleAction(act) })
	}
}

func (h *host) run() error {
	for h.running {
		if _, err := h.engine.Tick(); err != nil {
			if !errors.Is(err, driver.ErrNotReady) {
				return err
			}
			slog.Warn("Nothing to run", "error", err)
		}

		events, err := h.backend.Update()
		if err != nil {
			return err
		}
		for _, ev := range events {
			h.inputs.Trigger(ev.Action, ev.Type)
		}

		h.limiter.WaitForNextTick()
	}

	slog.Info("Stopped", "pacing", h.engine.PacingSample().String())
	return nil
}
