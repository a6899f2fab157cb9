//go:build oto

package sink

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
)

const bytesPerSample = 4 // float32

// oto allows a single context per process.
var (
	otoCtx      *oto.Context
	otoRate     int
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: audio.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   20 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
		otoRate = sampleRate
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("oto context already running at %d Hz", otoRate)
	}
	return otoCtx, nil
}

// OtoSink plays the scheduled timeline on the default audio device.
// oto's player pulls from Read on its own goroutine; the timeline is the
// only state shared with it.
type OtoSink struct {
	player     *oto.Player
	timeline   *Timeline
	sampleRate int
	buf        []float32
}

// NewOtoSink opens the default output device.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: oto: %v", audio.ErrSinkUnavailable, err)
	}

	s := &OtoSink{
		timeline:   NewTimeline(sampleRate),
		sampleRate: sampleRate,
		buf:        make([]float32, 4096),
	}
	s.player = ctx.NewPlayer(s)
	s.player.Play()

	return s, nil
}

// Read implements io.Reader for the oto player.
func (s *OtoSink) Read(p []byte) (int, error) {
	frames := len(p) / (bytesPerSample * audio.Channels)
	n := frames * audio.Channels
	if len(s.buf) < n {
		s.buf = make([]float32, n)
	}
	samples := s.buf[:n]
	s.timeline.Read(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(v))
	}
	return n * bytesPerSample, nil
}

func (s *OtoSink) ScheduleBlock(samples []float32, start, end float64) error {
	return s.timeline.Schedule(samples, start, end)
}

func (s *OtoSink) Now() float64 {
	return s.timeline.Now()
}

func (s *OtoSink) CreateSilence(frames int) []float32 {
	return audio.Silence(frames)
}

// OutputLatency reports audio handed to oto but not yet played.
func (s *OtoSink) OutputLatency() time.Duration {
	frames := s.player.BufferedSize() / (bytesPerSample * audio.Channels)
	return time.Duration(frames) * time.Second / time.Duration(s.sampleRate)
}

func (s *OtoSink) Close() error {
	return s.player.Close()
}
