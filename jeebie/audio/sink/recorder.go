package sink

import (
	"errors"
	"sync"

	"github.com/valerio/go-jeebie-av/jeebie/audio"
	"github.com/valerio/go-jeebie-av/jeebie/timing"
)

// ErrClosed is returned when scheduling on a closed sink.
var ErrClosed = errors.New("sink closed")

// Span is one block as received by a Recorder.
type Span struct {
	Start   float64
	End     float64
	Samples []float32
}

// Recorder is an OutputSink that keeps every scheduled block in memory.
// It plays nothing; its clock is the provided timing.Clock.
type Recorder struct {
	mu     sync.Mutex
	clock  timing.Clock
	spans  []Span
	closed bool

	// FailAfter makes ScheduleBlock fail once this many blocks were accepted.
	// Zero disables failures.
	FailAfter int
}

func NewRecorder(clock timing.Clock) *Recorder {
	if clock == nil {
		clock = timing.NewManualClock()
	}
	return &Recorder{clock: clock}
}

func (r *Recorder) ScheduleBlock(samples []float32, start, end float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.FailAfter > 0 && len(r.spans) >= r.FailAfter {
		return errors.New("device lost")
	}

	r.spans = append(r.spans, Span{
		Start:   start,
		End:     end,
		Samples: append([]float32(nil), samples...),
	})
	return nil
}

func (r *Recorder) Now() float64 {
	return r.clock.Now().Seconds()
}

func (r *Recorder) CreateSilence(frames int) []float32 {
	return audio.Silence(frames)
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Spans returns a copy of everything scheduled so far.
func (r *Recorder) Spans() []Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Span(nil), r.spans...)
}

// Starts returns the start time of every scheduled block.
func (r *Recorder) Starts() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	starts := make([]float64, len(r.spans))
	for i, s := range r.spans {
		starts[i] = s.Start
	}
	return starts
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
