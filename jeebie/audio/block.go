package audio

// SampleBlock is a fixed-size buffer of interleaved stereo float samples in [-1, 1].
// A block must not be modified after it is handed to the Scheduler.
type SampleBlock struct {
	Samples []float32
}

// NewSampleBlock wraps interleaved samples.
func NewSampleBlock(samples []float32) SampleBlock {
	return SampleBlock{Samples: samples}
}

// Frames returns the number of stereo frames in the block.
func (b SampleBlock) Frames() int {
	return len(b.Samples) / Channels
}

// Valid reports whether the block holds whole stereo frames.
func (b SampleBlock) Valid() bool {
	return len(b.Samples) > 0 && len(b.Samples)%Channels == 0
}
