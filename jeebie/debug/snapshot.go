// Package debug holds developer helpers shared by the backends.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// TakeSnapshot saves frame to the working directory, for the snapshot key
func TakeSnapshot(frame *video.FrameBuffer, baseName string) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}
	if baseName == "" {
		baseName = "jeebie_snapshot"
	}

	if _, err := SaveFramePNGToDir(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a framebuffer into an RGBA image.
func FrameImage(frame *video.FrameBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for i, pixel := range frame.ToSlice() {
		idx := i * video.BytesPerPixel
		img.Pix[idx] = byte(pixel >> video.RedShift)
		img.Pix[idx+1] = byte(pixel >> video.GreenShift)
		img.Pix[idx+2] = byte(pixel >> video.BlueShift)
		img.Pix[idx+3] = byte(pixel & video.ChannelMask)
	}
	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory and returns the written path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	img := FrameImage(frame)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	// Determine output directory
	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", video.FramebufferWidth, video.FramebufferHeight), "format", "PNG")
	return filePath, nil
}
