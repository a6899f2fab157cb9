// Package pacing keeps rolling timing diagnostics for display. Nothing in
// here feeds back into stepping or scheduling.
package pacing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

// Config sets the monitor window sizes.
type Config struct {
	Window           int // rate samples kept for the rolling mean
	AudioOffsetEvery int // audio blocks between offset refreshes
}

func DefaultConfig() Config {
	return Config{
		Window:           100,
		AudioOffsetEvery: 30,
	}
}

// Sample is a derived snapshot of timing health.
type Sample struct {
	InstantaneousRate float64 // ticks per second, last tick
	RollingMeanRate   float64 // ticks per second, mean over the window
	AudioOffsetMs     float64 // scheduled minus elapsed at the last refresh
	Steps             int     // emulator steps completed in the last tick
	Paused            bool
	Turbo             bool
	AudioEnabled      bool
}

func (s Sample) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.1f fps (avg %.1f)", s.InstantaneousRate, s.RollingMeanRate)
	fmt.Fprintf(&b, " | steps %d", s.Steps)
	if s.AudioEnabled {
		fmt.Fprintf(&b, " | audio %+.1fms", s.AudioOffsetMs)
	} else {
		b.WriteString(" | audio off")
	}
	if s.Turbo {
		b.WriteString(" | TURBO")
	}
	if s.Paused {
		b.WriteString(" | PAUSED")
	}
	return b.String()
}

// Monitor computes tick rates and the audio clock offset.
type Monitor struct {
	config Config
	clock  timing.Clock
	rates  *Ring

	last    time.Duration
	hasLast bool

	current Sample
	blocks  uint64
}

func NewMonitor(config Config, clock timing.Clock) *Monitor {
	if config.AudioOffsetEvery < 1 {
		config.AudioOffsetEvery = 1
	}
	if clock == nil {
		clock = timing.NewWallClock()
	}
	return &Monitor{
		config: config,
		clock:  clock,
		rates:  NewRing(config.Window),
	}
}

// Sample records one completed host tick.
func (m *Monitor) Sample(completedSteps int) Sample {
	now := m.clock.Now()
	if m.hasLast {
		if delta := (now - m.last).Seconds(); delta > 0 {
			m.Push(1 / delta)
		}
	}
	m.last = now
	m.hasLast = true

	m.current.Steps = completedSteps
	m.current.Paused = false
	return m.current
}

// Idle records a tick in which nothing ran. The rate reads zero and the
// next Sample does not count the idle gap.
func (m *Monitor) Idle() Sample {
	m.hasLast = false
	m.current.InstantaneousRate = 0
	m.current.Steps = 0
	m.current.Paused = true
	return m.current
}

// Push adds a rate sample directly. Non-finite rates are ignored.
func (m *Monitor) Push(rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return
	}
	m.rates.Push(rate)
	m.current.InstantaneousRate = rate
	m.current.RollingMeanRate = m.rates.Mean()
}

// ObserveAudio counts a scheduled audio block and refreshes the displayed
// offset on every AudioOffsetEvery-th block.
func (m *Monitor) ObserveAudio(headroomMs float64) {
	m.blocks++
	if m.blocks%uint64(m.config.AudioOffsetEvery) == 0 && !math.IsNaN(headroomMs) {
		m.current.AudioOffsetMs = headroomMs
	}
}

// SetModes records the mode flags shown with the sample.
func (m *Monitor) SetModes(turbo, audioEnabled bool) {
	m.current.Turbo = turbo
	m.current.AudioEnabled = audioEnabled
}

// Current returns the latest sample without recording anything.
func (m *Monitor) Current() Sample {
	return m.current
}

// Rates returns up to n recent rate samples, newest first.
func (m *Monitor) Rates(n int) []float64 {
	return m.rates.Recent(n)
}

// WindowLen returns the number of rate samples in the window.
func (m *Monitor) WindowLen() int {
	return m.rates.Len()
}
