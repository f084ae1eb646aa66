package ccsds

import "errors"

// Error kinds returned by the compressor. Call sites wrap them with
// context; test with errors.Is.
var (
	// ErrConfig reports an invalid or contradictory descriptor or
	// configuration, or a sample source that does not match it.
	ErrConfig = errors.New("ccsds: invalid configuration")

	// ErrAllocation reports that a run's buffers cannot be obtained.
	ErrAllocation = errors.New("ccsds: allocation failed")

	// ErrInvariant reports a mapped residual outside the coder alphabet.
	// It indicates a bug, never bad input, and is not recoverable.
	ErrInvariant = errors.New("ccsds: internal invariant violated")

	// ErrIO reports a failed write to an output sink.
	ErrIO = errors.New("ccsds: i/o error")
)
