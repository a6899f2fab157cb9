package audio

import "errors"

var (
	// ErrSinkUnavailable means the output device could not be opened or
	// stopped accepting blocks. The scheduler continues in silent mode.
	ErrSinkUnavailable = errors.New("audio sink unavailable")

	// ErrDriftUnrecoverable means a block's schedule could not be computed.
	// The block is dropped and the base delay is reset.
	ErrDriftUnrecoverable = errors.New("audio drift unrecoverable")

	// ErrMalformedBlock means a block does not hold whole stereo frames.
	ErrMalformedBlock = errors.New("malformed sample block")
)
