package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rate = 1000 // one frame per millisecond keeps the arithmetic readable

func frames(n int, v float32) []float32 {
	s := make([]float32, n*2)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestTimeline_ReadInScheduleOrder(t *testing.T) {
	tl := NewTimeline(rate)
	require.NoError(t, tl.Schedule(frames(10, 1), 0, 0.010))
	require.NoError(t, tl.Schedule(frames(10, 2), 0.010, 0.020))

	out := make([]float32, 20*2)
	tl.Read(out)

	assert.Equal(t, frames(10, 1), out[:20])
	assert.Equal(t, frames(10, 2), out[20:])
	assert.InDelta(t, 0.020, tl.Now(), 1e-12)
}

func TestTimeline_GapsReadAsSilence(t *testing.T) {
	tl := NewTimeline(rate)
	require.NoError(t, tl.Schedule(frames(5, 1), 0.005, 0.010))

	out := frames(10, 9)
	tl.Read(out)

	assert.Equal(t, frames(5, 0), out[:10])
	assert.Equal(t, frames(5, 1), out[10:])
}

func TestTimeline_LateAudioIsDropped(t *testing.T) {
	tl := NewTimeline(rate)
	tl.Read(make([]float32, 10*2)) // playhead at 10ms

	require.NoError(t, tl.Schedule(frames(10, 1), 0.005, 0.015))
	out := make([]float32, 10*2)
	tl.Read(out)

	// only the part after the playhead survives, and it plays right away
	assert.Equal(t, frames(5, 1), out[:10])
	assert.Equal(t, frames(5, 0), out[10:])

	require.NoError(t, tl.Schedule(frames(5, 1), 0.001, 0.006))
	assert.Zero(t, tl.Queued())
}

func TestTimeline_OverlapReplacesQueuedAudio(t *testing.T) {
	tl := NewTimeline(rate)
	require.NoError(t, tl.Schedule(frames(10, 1), 0, 0.010))
	require.NoError(t, tl.Schedule(frames(4, 2), 0.003, 0.007))

	out := make([]float32, 10*2)
	tl.Read(out)

	assert.Equal(t, frames(3, 1), out[:6])
	assert.Equal(t, frames(4, 2), out[6:14])
	assert.Equal(t, frames(3, 1), out[14:])
}

func TestTimeline_EndTruncatesBlock(t *testing.T) {
	tl := NewTimeline(rate)
	require.NoError(t, tl.Schedule(frames(10, 1), 0, 0.004))
	assert.Equal(t, int64(4), tl.End())
	assert.InDelta(t, 0.004, tl.Queued(), 1e-12)
}

func TestTimeline_RejectsInvalidSpans(t *testing.T) {
	tl := NewTimeline(rate)
	assert.Error(t, tl.Schedule(frames(1, 1), 0.002, 0.001))
	assert.Error(t, tl.Schedule(frames(1, 1), DefaultMaxAhead+1, DefaultMaxAhead+2))
}
