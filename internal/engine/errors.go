package engine

import "errors"

// Sentinel errors returned by the engine. All are configuration-time errors;
// nothing in the per-block path raises, and numeric faults degrade to silence
// for the affected samples instead of halting the stream.
var (
	// ErrInvalidConfig indicates an invalid parameter snapshot or channel
	// setup; the previous configuration is retained.
	ErrInvalidConfig = errors.New("invalid clipper configuration")

	// ErrUnsupportedRate indicates a sample rate outside the supported range.
	ErrUnsupportedRate = errors.New("unsupported sample rate")

	// ErrNotPrepared indicates ProcessBlock was called before Prepare.
	ErrNotPrepared = errors.New("engine not prepared")

	// ErrBadBlock indicates malformed block buffers (wrong channel count,
	// mismatched lengths, or a block larger than the prepared maximum).
	ErrBadBlock = errors.New("malformed audio block")
)
