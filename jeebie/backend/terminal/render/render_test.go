package render

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

func TestPixelToShade(t *testing.T) {
	tests := []struct {
		name     string
		pixel    video.GBColor
		expected int
	}{
		{"black", video.BlackColor, 0},
		{"dark", video.DarkGreyColor, 1},
		{"light", video.LightGreyColor, 2},
		{"white", video.WhiteColor, 3},
		{"off palette bright", 0xF0F0F0FF, 3},
		{"off palette dim", 0x202020FF, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PixelToShade(uint32(tt.pixel)))
		})
	}
}

func TestGetHalfBlockChar(t *testing.T) {
	assert.Equal(t, '█', GetHalfBlockChar(2, 2))
	assert.Equal(t, '▄', GetHalfBlockChar(3, 0))
	assert.Equal(t, '▀', GetHalfBlockChar(0, 3))
	assert.Equal(t, '▀', GetHalfBlockChar(1, 2))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▄█", Sparkline([]float64{120, 60, 0}, 120))
	assert.Equal(t, "█▁", Sparkline([]float64{-5, 500}, 120), "out of range values clamp")
	assert.Empty(t, Sparkline(nil, 120))
}

func TestLogBufferHandler(t *testing.T) {
	buf := NewLogBuffer(3)
	logger := slog.New(NewLogBufferHandler(buf, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("Audio latency", "latency_ms", 20)
	logger.With("block", 5).WithGroup("sink").Warn("late", "by_ms", 3)

	entries := buf.GetRecent(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "late block=5 sink.by_ms=3", entries[0].Message)
	assert.Equal(t, slog.LevelWarn, entries[0].Level)
	assert.Equal(t, "Audio latency latency_ms=20", entries[1].Message)

	assert.True(t, strings.HasSuffix(FormatLogEntry(entries[0]), "[WRN] late block=5 sink.by_ms=3"))
	assert.False(t, NewLogBufferHandler(buf, slog.LevelInfo).Enabled(context.Background(), slog.LevelDebug))
}

func TestLogBuffer_Wraps(t *testing.T) {
	buf := NewLogBuffer(2)
	for _, msg := range []string{"a", "b", "c"} {
		buf.Add(LogEntry{Message: msg})
	}

	entries := buf.GetRecent(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Message)
	assert.Equal(t, "b", entries[1].Message)

	buf.Clear()
	assert.Empty(t, buf.GetRecent(0))
}
