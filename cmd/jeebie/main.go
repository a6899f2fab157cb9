package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "Jeebie"
	app.Description = "Game Boy front end with drift-corrected audio/video pacing"
	app.Usage = "jeebie [options]"
	app.Version = "1.0.0"
	app.Flags = flags()
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "backend",
			Usage: "Front end to run: terminal, headless or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to present before exiting (0 = run until quit)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: 4,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Host tick pacing: adaptive, ticker or none",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "turbo",
			Usage: "Start in turbo mode (unthrottled stepping, no audio)",
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Start with audio forwarding disabled",
		},
		cli.StringFlag{
			Name:  "audio",
			Usage: "Audio output: oto, wav or none",
			Value: "oto",
		},
		cli.StringFlag{
			Name:  "wav-out",
			Usage: "Output file for --audio wav",
			Value: "jeebie.wav",
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Output sample rate in Hz",
			Value: 48000,
		},
		cli.IntFlag{
			Name:  "block-frames",
			Usage: "Stereo frames per audio block",
			Value: 1024,
		},
		cli.Float64Flag{
			Name:  "base-delay",
			Usage: "Initial scheduling delay in seconds",
			Value: 0.05,
		},
		cli.Float64Flag{
			Name:  "highpass-hz",
			Usage: "High-pass cutoff applied to the output (0 = off)",
			Value: 200,
		},
		cli.Float64Flag{
			Name:  "tone-hz",
			Usage: "Frequency of the test pattern tone (0 = silent blocks)",
			Value: 440,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "Serve runtime statistics on localhost:12600 (build with -tags statsview)",
		},
	}
}
