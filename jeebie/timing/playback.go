package timing

import (
	"math"
	"time"
)

// Drift correction constants.
const (
	// DefaultBaseDelay is the initial scheduling latency in seconds.
	DefaultBaseDelay = 0.05

	// UnderrunGap is the forward gap injected when a block would start in the past.
	UnderrunGap = 0.1

	// OverrunThresholdMs is the headroom above which the queue is contracted.
	OverrunThresholdMs = 150.0

	// OverrunStep is how much one overrun correction contracts the queue, in seconds.
	OverrunStep = 0.1
)

// Branch identifies which correction rule a block went through.
type Branch int

const (
	Steady Branch = iota
	Underrun
	Overrun
)

func (b Branch) String() string {
	switch b {
	case Underrun:
		return "underrun"
	case Overrun:
		return "overrun"
	default:
		return "steady"
	}
}

// Cursor is the schedule position of an audio stream.
// BlockIndex only ever increases; BaseDelay is the single correction term.
type Cursor struct {
	BlockIndex uint64
	BaseDelay  float64
}

// NewCursor returns a cursor at block zero with the given base delay.
func NewCursor(baseDelay float64) Cursor {
	return Cursor{BaseDelay: baseDelay}
}

// BlockDuration returns the seconds of audio held by a block of frames at sampleRate.
func BlockDuration(frames, sampleRate int) float64 {
	if sampleRate <= 0 {
		return math.NaN()
	}
	return float64(frames) / float64(sampleRate)
}

// PlaybackTime is when the block at the cursor should start, in stream seconds.
func (c Cursor) PlaybackTime(blockDuration float64) float64 {
	return float64(c.BlockIndex)*blockDuration + c.BaseDelay
}

// HeadroomMs is scheduled time minus elapsed time, in milliseconds.
// Negative means the schedule is already late.
func HeadroomMs(playbackTime float64, elapsed time.Duration) float64 {
	return playbackTime*1000 - float64(elapsed)/float64(time.Millisecond)
}

// Decision is the outcome of reconciling a cursor against the wall clock.
type Decision struct {
	Branch       Branch
	PlaybackTime float64 // corrected start time in seconds
	HeadroomMs   float64 // headroom before correction
	Offset       float64 // seconds added to BaseDelay (negative for overrun)
}

// CorrectedHeadroomMs returns the headroom after the correction was applied.
func (d Decision) CorrectedHeadroomMs() float64 {
	return d.HeadroomMs + d.Offset*1000
}

// Valid reports whether every value in the decision is finite.
func (d Decision) Valid() bool {
	return finite(d.PlaybackTime) && finite(d.HeadroomMs) && finite(d.Offset)
}

// Reconcile applies the drift correction rule to the block at the cursor.
// It is a pure function: the caller applies Offset to its own cursor.
func Reconcile(c Cursor, blockDuration float64, elapsed time.Duration) Decision {
	playback := c.PlaybackTime(blockDuration)
	headroom := HeadroomMs(playback, elapsed)

	d := Decision{
		Branch:       Steady,
		PlaybackTime: playback,
		HeadroomMs:   headroom,
	}

	switch {
	case headroom <= 0:
		d.Branch = Underrun
		d.Offset = elapsed.Seconds() - playback + UnderrunGap
	case headroom > OverrunThresholdMs:
		d.Branch = Overrun
		d.Offset = -OverrunStep
	}
	d.PlaybackTime += d.Offset

	return d
}

// Apply returns the cursor advanced past the block described by d.
func (c Cursor) Apply(d Decision) Cursor {
	return Cursor{
		BlockIndex: c.BlockIndex + 1,
		BaseDelay:  c.BaseDelay + d.Offset,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
