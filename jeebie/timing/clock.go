package timing

import (
	"sync"
	"time"
)

// Clock reports elapsed time since an arbitrary, fixed origin.
// All engine components read time through a Clock so tests can drive them
// deterministically.
type Clock interface {
	Now() time.Duration
}

// WallClock is a monotonic Clock anchored at its creation time.
type WallClock struct {
	origin time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{origin: time.Now()}
}

func (w *WallClock) Now() time.Duration {
	return time.Since(w.origin)
}

// ManualClock only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (m *ManualClock) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d. Negative values are ignored.
func (m *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}

// Set jumps the clock to t. Used to simulate stalls in tests.
func (m *ManualClock) Set(t time.Duration) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
