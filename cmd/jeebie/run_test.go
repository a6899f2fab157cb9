package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"github.com/valerio/go-jeebie-av/jeebie"
	"github.com/valerio/go-jeebie-av/jeebie/backend/headless"
	"github.com/valerio/go-jeebie-av/jeebie/input"
	"github.com/valerio/go-jeebie-av/jeebie/testpattern"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

func parseArgs(t *testing.T, args ...string) (options, error) {
	t.Helper()
	var (
		o   options
		err error
	)
	app := cli.NewApp()
	app.Flags = flags()
	app.Action = func(c *cli.Context) error {
		o, err = parseOptions(c)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"jeebie"}, args...)))
	return o, err
}

func TestParseOptionsDefaults(t *testing.T) {
	o, err := parseArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "terminal", o.backend)
	assert.Equal(t, "adaptive", o.limiter)
	assert.Equal(t, "oto", o.audioOut)
	assert.Equal(t, 48000, o.audio.SampleRate)
	assert.Equal(t, 1024, o.audio.BlockFrames)
	assert.InDelta(t, 0.05, o.audio.BaseDelay, 1e-12)
	assert.InDelta(t, 200.0, o.audio.HighpassHz, 1e-12)
	assert.InDelta(t, 440.0, o.toneHz, 1e-12)
	assert.Equal(t, slog.LevelInfo, o.logLevel)
	assert.False(t, o.turbo)
	assert.False(t, o.mute)
}

func TestParseOptionsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero sample rate", []string{"--sample-rate", "0"}},
		{"negative block frames", []string{"--block-frames", "-1"}},
		{"negative base delay", []string{"--base-delay", "-0.1"}},
		{"unknown backend", []string{"--backend", "vulkan"}},
		{"unknown audio", []string{"--audio", "alsa"}},
		{"unknown log level", []string{"--log-level", "loud"}},
		{"negative frames", []string{"--frames", "-5"}},
		{"wav without path", []string{"--audio", "wav", "--wav-out", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSinkFactory(t *testing.T) {
	assert.Nil(t, sinkFactory(options{audioOut: "none"}))
	assert.NotNil(t, sinkFactory(options{audioOut: "oto"}))
	assert.NotNil(t, sinkFactory(options{audioOut: "wav", wavPath: "out.wav"}))
}

func TestHostRunsHeadlessUntilQuit(t *testing.T) {
	be := headless.New(5, headless.SnapshotConfig{})
	engine := jeebie.NewEngine(jeebie.DefaultConfig(), be, nil, timing.NewWallClock())
	emu := testpattern.New(testpattern.Config{})
	engine.Load(emu)
	defer engine.Close()

	h := &host{engine: engine, backend: be, limiter: timing.NewNoOpLimiter(), running: true}
	h.bind(input.NewManager(engine), emu)

	require.NoError(t, h.run())
	assert.Equal(t, 5, be.FrameCount())
	assert.False(t, h.running)
}
