package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

// underruns deeper than this are logged at warn level
const stallWarnMs = -100.0

// Config holds the stream format and scheduling parameters.
type Config struct {
	SampleRate  int
	BlockFrames int
	BaseDelay   float64 // seconds of initial latency
	HighpassHz  float64 // 0 disables the output filter
}

// DefaultConfig is 1024 frame stereo blocks at 48kHz, 50ms initial latency
// and a 200Hz high-pass.
func DefaultConfig() Config {
	return Config{
		SampleRate:  DefaultSampleRate,
		BlockFrames: DefaultBlockFrames,
		BaseDelay:   timing.DefaultBaseDelay,
		HighpassHz:  DefaultHighpassHz,
	}
}

// BlockDuration returns the seconds of audio in one block.
func (c Config) BlockDuration() float64 {
	return timing.BlockDuration(c.BlockFrames, c.SampleRate)
}

// Placement describes where a block landed on the sink's timeline.
type Placement struct {
	Index      uint64
	Start      float64 // seconds
	End        float64 // seconds
	HeadroomMs float64 // headroom after correction
	Branch     timing.Branch
	Silent     bool // scheduler is in silent mode, nothing was scheduled
}

// Scheduler maps an arrival-ordered stream of SampleBlocks onto absolute
// times of an OutputSink, correcting drift between the producer and the
// sink's clock. It is the single writer of its cursor and of the sink
// schedule and must only be used from one goroutine.
type Scheduler struct {
	config        Config
	sink          OutputSink
	clock         timing.Clock
	blockDuration float64

	cursor      timing.Cursor
	streamStart time.Duration
	sinkOrigin  float64 // sink time at stream start
	started     bool
	silent      bool

	filter  *Highpass
	scratch []float32
}

// NewScheduler creates a scheduler writing to sink and measuring elapsed
// time with clock. A nil sink puts the scheduler in silent mode.
func NewScheduler(config Config, sink OutputSink, clock timing.Clock) *Scheduler {
	if clock == nil {
		clock = timing.NewWallClock()
	}
	return &Scheduler{
		config:        config,
		sink:          sink,
		clock:         clock,
		blockDuration: config.BlockDuration(),
		cursor:        timing.NewCursor(config.BaseDelay),
		filter:        NewHighpass(config.HighpassHz, config.SampleRate),
	}
}

// Start records the stream start time and primes the sink with one block of
// silence at block zero so it never starts at t=0 with nothing buffered.
// Calling Start again is a no-op.
func (s *Scheduler) Start() error {
	if s.started {
		return nil
	}
	s.started = true
	s.streamStart = s.clock.Now()

	if s.sink == nil {
		s.silent = true
		slog.Warn("No audio sink, continuing without sound")
		return ErrSinkUnavailable
	}

	if lr, ok := s.sink.(LatencyReporter); ok {
		slog.Info("Audio latency", "latency_ms", lr.OutputLatency().Milliseconds())
	}

	s.sinkOrigin = s.sink.Now()

	silence := s.sink.CreateSilence(s.config.BlockFrames)
	start := s.sinkOrigin + s.cursor.PlaybackTime(s.blockDuration)
	if err := s.sink.ScheduleBlock(silence, start, start+s.blockDuration); err != nil {
		s.silent = true
		slog.Error("Audio sink rejected priming block, continuing without sound", "error", err)
		return fmt.Errorf("priming: %w: %v", ErrSinkUnavailable, err)
	}
	s.cursor.BlockIndex++

	slog.Info("Initiated audio",
		"sample_rate", s.config.SampleRate,
		"block_frames", s.config.BlockFrames,
		"base_delay", s.cursor.BaseDelay)
	return nil
}

// Enqueue schedules block right after the previous one, applying the
// underrun/overrun correction first.
func (s *Scheduler) Enqueue(block SampleBlock) (Placement, error) {
	if !s.started {
		// the sink failure is already logged, keep going silently
		_ = s.Start()
	}
	if s.silent {
		return Placement{Silent: true}, nil
	}
	if !block.Valid() {
		return Placement{}, fmt.Errorf("%w: %d samples", ErrMalformedBlock, len(block.Samples))
	}

	index := s.cursor.BlockIndex
	elapsed := s.clock.Now() - s.streamStart
	d := timing.Reconcile(s.cursor, s.blockDuration, elapsed)

	if !(s.blockDuration > 0) || !d.Valid() {
		slog.Warn("Dropping audio block with unschedulable time",
			"block", index,
			"block_duration", s.blockDuration,
			"playback_time", d.PlaybackTime,
			"headroom_ms", d.HeadroomMs)
		s.cursor.BlockIndex++
		s.cursor.BaseDelay = timing.DefaultBaseDelay
		return Placement{}, fmt.Errorf("block %d: %w", index, ErrDriftUnrecoverable)
	}

	switch d.Branch {
	case timing.Underrun:
		level := slog.LevelDebug
		if d.HeadroomMs < stallWarnMs {
			level = slog.LevelWarn
		}
		slog.Log(context.Background(), level, "Audio falling behind, creating audio gap",
			"block", index, "headroom_ms", d.HeadroomMs, "offset", d.Offset)
	case timing.Overrun:
		slog.Debug("Audio too far ahead, contracting queue",
			"block", index, "headroom_ms", d.HeadroomMs)
	}

	s.cursor = s.cursor.Apply(d)

	p := Placement{
		Index:      index,
		Start:      d.PlaybackTime,
		End:        d.PlaybackTime + s.blockDuration,
		HeadroomMs: d.CorrectedHeadroomMs(),
		Branch:     d.Branch,
	}

	samples := block.Samples
	if s.filter != nil {
		if cap(s.scratch) < len(samples) {
			s.scratch = make([]float32, len(samples))
		}
		s.scratch = s.scratch[:len(samples)]
		s.filter.Process(s.scratch, samples)
		samples = s.scratch
	}

	if err := s.sink.ScheduleBlock(samples, s.sinkOrigin+p.Start, s.sinkOrigin+p.End); err != nil {
		s.silent = true
		slog.Error("Audio sink failed, continuing without sound", "block", index, "error", err)
		return p, fmt.Errorf("block %d: %w: %v", index, ErrSinkUnavailable, err)
	}

	return p, nil
}

// Cursor returns the current schedule position.
func (s *Scheduler) Cursor() timing.Cursor {
	return s.cursor
}

// Silent reports whether the scheduler degraded to a no-op.
func (s *Scheduler) Silent() bool {
	return s.silent
}

// BlockDuration returns the seconds of audio in one block.
func (s *Scheduler) BlockDuration() float64 {
	return s.blockDuration
}

// SampleRate returns the output sample rate in Hz.
func (s *Scheduler) SampleRate() int {
	return s.config.SampleRate
}

// Close releases the sink. The scheduler stays silent afterwards.
func (s *Scheduler) Close() error {
	s.silent = true
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}
