package headless

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/debug"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/input/event"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
	last           *video.FrameBuffer
	done           bool
	saved          []string
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	BaseName  string // Prefix for snapshot filenames
}

// New creates a backend that quits after maxFrames presented frames. Zero
// runs until interrupted.
func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)
	return nil
}

// Present counts a frame and saves snapshots
func (h *Backend) Present(frame *video.FrameBuffer) {
	if h.done {
		return
	}
	h.frameCount++
	h.last = frame

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	// Log progress periodically
	if h.frameCount%60 == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames, "status", h.config.Callbacks.StatusText())
	}
}

// Update signals quit once the target frame count is reached
func (h *Backend) Update() ([]backend.InputEvent, error) {
	if h.done || h.maxFrames <= 0 || h.frameCount < h.maxFrames {
		return nil, nil
	}
	h.done = true

	// Save final snapshot if enabled and we haven't just saved one
	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		h.saveSnapshot(h.last)
	}

	if h.snapshotConfig.Enabled {
		slog.Info("Headless execution completed", "frames", h.frameCount, "png_snapshots_saved_to", h.snapshotConfig.Directory)
	} else {
		slog.Info("Headless execution completed", "frames", h.frameCount)
	}

	// Signal completion via quit event
	return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

func (h *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot && h.last != nil {
		h.saveSnapshot(h.last)
	}
}

func (h *Backend) Cleanup() error {
	return nil
}

// FrameCount returns the number of frames presented.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

// Snapshots returns the paths of the snapshots written so far.
func (h *Backend) Snapshots() []string {
	return h.saved
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, baseName string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
		BaseName: baseName,
	}

	if !config.Enabled {
		return config, nil
	}
	if config.BaseName == "" {
		config.BaseName = "jeebie"
	}

	// Set up snapshot directory
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "jeebie-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	return config, nil
}

// saveSnapshot saves a PNG snapshot for the current frame
func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	pngBaseName := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.BaseName, h.frameCount)

	path, err := debug.SaveFramePNGToDir(frame, pngBaseName, h.snapshotConfig.Directory)
	if err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	h.saved = append(h.saved, path)
}
