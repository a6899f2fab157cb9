package pacing

// Ring is a fixed-capacity circular buffer of rate samples. Pushing into a
// full ring evicts the oldest sample.
type Ring struct {
	entries []float64
	size    int
	index   int
	count   int
	sum     float64
}

// NewRing creates a ring holding at most size samples.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{
		entries: make([]float64, size),
		size:    size,
	}
}

// Push inserts v, evicting the oldest sample when full.
func (r *Ring) Push(v float64) {
	if r.count == r.size {
		r.sum -= r.entries[r.index]
	} else {
		r.count++
	}
	r.entries[r.index] = v
	r.sum += v
	r.index = (r.index + 1) % r.size

	// keep the running sum from accumulating rounding error
	if r.index == 0 {
		r.resum()
	}
}

// Len returns the number of samples held.
func (r *Ring) Len() int {
	return r.count
}

// Mean returns the mean of the held samples, zero when empty.
func (r *Ring) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// Recent returns up to maxCount samples, newest first.
func (r *Ring) Recent(maxCount int) []float64 {
	count := r.count
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}

	result := make([]float64, count)
	for i := 0; i < count; i++ {
		result[i] = r.entries[(r.index-1-i+r.size)%r.size]
	}
	return result
}

// Clear removes all samples.
func (r *Ring) Clear() {
	r.index = 0
	r.count = 0
	r.sum = 0
}

func (r *Ring) resum() {
	r.sum = 0
	for i := 0; i < r.count; i++ {
		r.sum += r.entries[i]
	}
}
