package audio

import "time"

// OutputSink is an audio device with its own clock that accepts blocks
// scheduled at absolute times on that clock.
type OutputSink interface {
	// ScheduleBlock places interleaved samples to play from start to end,
	// both in seconds on the sink's clock. The sink copies samples; the
	// caller may reuse the slice.
	ScheduleBlock(samples []float32, start, end float64) error

	// Now returns the sink's current playback time in seconds.
	Now() float64

	// CreateSilence returns a zeroed interleaved buffer of the given frame count.
	CreateSilence(frames int) []float32

	Close() error
}

// LatencyReporter is implemented by sinks that know their output latency.
type LatencyReporter interface {
	OutputLatency() time.Duration
}

// Silence returns a zeroed interleaved buffer for frames stereo frames.
func Silence(frames int) []float32 {
	if frames <= 0 {
		return nil
	}
	return make([]float32, frames*Channels)
}
