package sink

import (
	"fmt"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
	wavChunk     = 4096 // frames per encoder write
)

// WAVSink renders the scheduled timeline into a 16-bit stereo WAV file as a
// device would play it: the playhead follows clock, and whatever is on the
// timeline when the playhead passes is what ends up in the file.
type WAVSink struct {
	path       string
	file       *os.File
	enc        *wav.Encoder
	timeline   *Timeline
	clock      timing.Clock
	origin     time.Duration
	sampleRate int

	floatBuf []float32
	intBuf   *goaudio.IntBuffer
	closed   bool
}

// NewWAVSink creates path and starts the sink clock.
func NewWAVSink(path string, sampleRate int, clock timing.Clock) (*WAVSink, error) {
	if clock == nil {
		clock = timing.NewWallClock()
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", audio.ErrSinkUnavailable, path, err)
	}

	enc := wav.NewEncoder(file, sampleRate, wavBitDepth, audio.Channels, wavPCMFormat)

	return &WAVSink{
		path:       path,
		file:       file,
		enc:        enc,
		timeline:   NewTimeline(sampleRate),
		clock:      clock,
		origin:     clock.Now(),
		sampleRate: sampleRate,
		floatBuf:   make([]float32, wavChunk*audio.Channels),
		intBuf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: audio.Channels, SampleRate: sampleRate},
			Data:           make([]int, wavChunk*audio.Channels),
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

func (w *WAVSink) ScheduleBlock(samples []float32, start, end float64) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.renderUntil(w.frameAt(w.Now())); err != nil {
		return err
	}
	return w.timeline.Schedule(samples, start, end)
}

func (w *WAVSink) Now() float64 {
	return (w.clock.Now() - w.origin).Seconds()
}

func (w *WAVSink) CreateSilence(frames int) []float32 {
	return audio.Silence(frames)
}

// Close writes out everything still scheduled and finalizes the WAV header.
func (w *WAVSink) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	renderErr := w.renderUntil(w.timeline.End())
	encErr := w.enc.Close()
	fileErr := w.file.Close()

	switch {
	case renderErr != nil:
		return renderErr
	case encErr != nil:
		return fmt.Errorf("failed to finalize %s: %v", w.path, encErr)
	case fileErr != nil:
		return fmt.Errorf("failed to close %s: %v", w.path, fileErr)
	}
	return nil
}

// Path returns the output file path.
func (w *WAVSink) Path() string {
	return w.path
}

func (w *WAVSink) frameAt(seconds float64) int64 {
	return int64(math.Floor(seconds * float64(w.sampleRate)))
}

// renderUntil advances the playhead to frame, encoding what it passes over.
func (w *WAVSink) renderUntil(frame int64) error {
	for {
		remaining := frame - w.timeline.Playhead()
		if remaining <= 0 {
			return nil
		}
		n := int64(wavChunk)
		if remaining < n {
			n = remaining
		}

		chunk := w.floatBuf[:n*audio.Channels]
		w.timeline.Read(chunk)

		data := w.intBuf.Data[:len(chunk)]
		for i, v := range chunk {
			data[i] = toPCM16(v)
		}
		w.intBuf.Data = data
		if err := w.enc.Write(w.intBuf); err != nil {
			return fmt.Errorf("failed to write %s: %v", w.path, err)
		}
		w.intBuf.Data = w.intBuf.Data[:cap(w.intBuf.Data)]
	}
}

func toPCM16(v float32) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(math.Round(float64(v) * math.MaxInt16))
}
