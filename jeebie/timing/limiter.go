package timing

import (
	"fmt"
	"time"
)

// RefreshPeriod is the host tick period the engine assumes, independent of the
// real display refresh so that stepping stays deterministic under test.
const RefreshPeriod = time.Second / 60

// Constants for Game Boy timing
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS calculates the exact Game Boy frame rate.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the emulated duration of a single Game Boy frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// Limiter paces host ticks, standing in for the browser's animation frame
// callback when the engine runs natively.
type Limiter interface {
	// WaitForNextTick blocks until the next host tick is due.
	// Returns immediately if timing is behind schedule.
	WaitForNextTick()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextTick() {}
func (n *noOpLimiter) Reset()           {}

// NewLimiter builds a limiter by name: "adaptive", "ticker" or "none".
func NewLimiter(kind string, period time.Duration) (Limiter, error) {
	switch kind {
	case "", "adaptive":
		return NewAdaptiveLimiter(period), nil
	case "ticker":
		return NewTickerLimiter(period), nil
	case "none":
		return NewNoOpLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", kind)
	}
}
