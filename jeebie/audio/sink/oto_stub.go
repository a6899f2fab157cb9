//go:build !oto

package sink

import (
	"fmt"
	"time"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
)

// OtoSink stub for when oto is not compiled in
type OtoSink struct{}

// NewOtoSink returns an error indicating oto is not available
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	return nil, fmt.Errorf("%w: oto backend not available - build with -tags oto to enable", audio.ErrSinkUnavailable)
}

func (s *OtoSink) ScheduleBlock(samples []float32, start, end float64) error {
	return audio.ErrSinkUnavailable
}

func (s *OtoSink) Now() float64 { return 0 }

func (s *OtoSink) CreateSilence(frames int) []float32 { return audio.Silence(frames) }

func (s *OtoSink) OutputLatency() time.Duration { return 0 }

func (s *OtoSink) Close() error { return nil }
