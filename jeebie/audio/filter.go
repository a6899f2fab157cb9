package audio

import "math"

// Highpass is a second order high-pass biquad applied independently to each
// channel of an interleaved stream. Filter state carries across blocks so
// block boundaries do not click.
// Reference: RBJ Audio EQ Cookbook, HPF with Q = 1/sqrt(2).
type Highpass struct {
	b0, b1, b2 float64
	a1, a2     float64
	state      [Channels]biquadState
}

type biquadState struct {
	x1, x2, y1, y2 float64
}

// NewHighpass returns a filter with the given cutoff, or nil when the cutoff
// is zero or not below the Nyquist frequency.
func NewHighpass(cutoffHz float64, sampleRate int) *Highpass {
	if cutoffHz <= 0 || sampleRate <= 0 || cutoffHz >= float64(sampleRate)/2 {
		return nil
	}

	w0 := 2 * math.Pi * cutoffHz / float64(sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / math.Sqrt2 // 2Q with Q = 1/sqrt(2)
	a0 := 1 + alpha

	return &Highpass{
		b0: (1 + cosw) / 2 / a0,
		b1: -(1 + cosw) / a0,
		b2: (1 + cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

// Process filters interleaved src into dst. dst and src may be the same slice.
func (h *Highpass) Process(dst, src []float32) {
	for i, x := range src {
		st := &h.state[i%Channels]
		in := float64(x)
		out := h.b0*in + h.b1*st.x1 + h.b2*st.x2 - h.a1*st.y1 - h.a2*st.y2

		st.x2, st.x1 = st.x1, in
		st.y2, st.y1 = st.y1, out
		dst[i] = float32(out)
	}
}

// Reset clears the filter history.
func (h *Highpass) Reset() {
	h.state = [Channels]biquadState{}
}
