package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	period      time.Duration
	nextTick    time.Time
	tickCounter int64
	started     time.Time
}

func NewAdaptiveLimiter(period time.Duration) *AdaptiveLimiter {
	if period <= 0 {
		period = RefreshPeriod
	}
	now := time.Now()
	return &AdaptiveLimiter{
		period:   period,
		nextTick: now,
		started:  now,
	}
}

func (a *AdaptiveLimiter) WaitForNextTick() {
	now := time.Now()
	sleepTime := a.nextTick.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= 2*time.Millisecond {
			time.Sleep(sleepTime - time.Millisecond)
		}
		for time.Now().Before(a.nextTick) {
			// busy-wait the last millisecond, higher accuracy.
		}
	} else if sleepTime < -5*time.Millisecond {
		// too far behind, don't try to catch up with a burst of ticks
		a.nextTick = now
	}

	a.nextTick = a.nextTick.Add(a.period)
	a.tickCounter++

	if a.tickCounter%60 == 0 {
		actual := time.Now()
		drift := actual.Sub(a.nextTick)

		if drift.Abs() > 10*time.Millisecond {
			a.nextTick = a.nextTick.Add(drift / 10)
			slog.Debug("Host tick drift correction",
				"drift_ms", drift.Milliseconds(),
				"tps", float64(a.tickCounter)/actual.Sub(a.started).Seconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextTick = time.Now()
	a.started = a.nextTick
	a.tickCounter = 0
}
