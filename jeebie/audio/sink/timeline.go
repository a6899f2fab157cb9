// Package sink provides audio.OutputSink implementations: a real device
// sink on top of oto, a WAV file capture sink and an in-memory recorder.
package sink

import (
	"fmt"
	"math"
	"sync"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
)

// DefaultMaxAhead bounds how far in the future a block may be scheduled.
const DefaultMaxAhead = 10.0 // seconds

// Timeline holds audio scheduled at absolute frame positions and hands it
// out in playback order. Scheduling over already queued audio replaces it,
// so a contracted schedule skips audio instead of mixing it.
// Timeline is safe for one scheduling goroutine and one reading goroutine.
type Timeline struct {
	mu         sync.Mutex
	sampleRate int
	maxAhead   int64 // frames

	playhead int64     // frame position of pending[0]
	pending  []float32 // interleaved samples from playhead onwards
	written  int64     // frame position one past the last scheduled frame
}

func NewTimeline(sampleRate int) *Timeline {
	return &Timeline{
		sampleRate: sampleRate,
		maxAhead:   int64(DefaultMaxAhead * float64(sampleRate)),
	}
}

// Schedule copies samples onto the timeline starting at start seconds. Only
// the part between start and end is kept; anything before the playhead is
// too late and dropped.
func (t *Timeline) Schedule(samples []float32, start, end float64) error {
	if math.IsNaN(start) || math.IsInf(start, 0) || end < start {
		return fmt.Errorf("invalid block span [%v, %v]", start, end)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	first := int64(math.Round(start * float64(t.sampleRate)))
	frames := int64(len(samples) / audio.Channels)
	if span := int64(math.Round((end - start) * float64(t.sampleRate))); span < frames {
		frames = span
	}

	if first-t.playhead > t.maxAhead {
		return fmt.Errorf("block at %.3fs is more than %.0fs ahead", start, DefaultMaxAhead)
	}

	skip := int64(0)
	if first < t.playhead {
		skip = t.playhead - first
	}
	if skip >= frames {
		return nil
	}

	offset := (first + skip - t.playhead) * audio.Channels
	need := (first + frames - t.playhead) * audio.Channels
	if int64(len(t.pending)) < need {
		t.pending = append(t.pending, make([]float32, need-int64(len(t.pending)))...)
	}
	copy(t.pending[offset:need], samples[skip*audio.Channels:frames*audio.Channels])

	if last := first + frames; last > t.written {
		t.written = last
	}
	return nil
}

// Read fills out with the next interleaved samples and advances the playhead.
// Gaps in the schedule read as silence.
func (t *Timeline) Read(out []float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := copy(out, t.pending)
	for i := n; i < len(out); i++ {
		out[i] = 0
	}

	frames := int64(len(out) / audio.Channels)
	if n >= len(t.pending) {
		t.pending = t.pending[:0]
	} else {
		t.pending = t.pending[n:]
	}
	t.playhead += frames
}

// Now returns the playhead position in seconds.
func (t *Timeline) Now() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.playhead) / float64(t.sampleRate)
}

// Playhead returns the playhead position in frames.
func (t *Timeline) Playhead() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playhead
}

// Queued returns the seconds of scheduled audio ahead of the playhead.
func (t *Timeline) Queued() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.written <= t.playhead {
		return 0
	}
	return float64(t.written-t.playhead) / float64(t.sampleRate)
}

// End returns the frame position one past the last scheduled frame.
func (t *Timeline) End() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}
