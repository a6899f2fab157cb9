package audio

// Stream format constants.
const (
	// Channels is the interleaved channel count of every SampleBlock.
	Channels = 2

	// DefaultSampleRate is the output sample rate in Hz.
	DefaultSampleRate = 48000

	// DefaultBlockFrames is the number of stereo frames per SampleBlock.
	DefaultBlockFrames = 1024

	// DefaultHighpassHz is the cutoff of the output DC-blocking filter.
	DefaultHighpassHz = 200
)
