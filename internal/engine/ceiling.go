package engine

import "math"

// The ceiling limiter is the last line of defense after the main chain: the
// oversampled curve stage contains the signal in the mean, but intersample
// peaks reconstructed by the downsampling filter can still poke above the
// ceiling by a fraction of a dB. Anything beyond it is clamped hard, and
// non-finite values are replaced with silence. Sanitization also runs on the
// bypass path; bypass must never propagate NaN or Inf downstream.

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sanitize replaces non-finite samples with 0 in place.
func sanitize(buf []float64) {
	for i, v := range buf {
		if !isFinite(v) {
			buf[i] = 0
		}
	}
}

// enforceCeiling clamps every sample to ±ceiling and sanitizes non-finite
// values in place. A ceiling at or below zero clamps to silence, matching the
// curve stage's defined degenerate behavior.
func enforceCeiling(buf []float64, ceiling float64) {
	if ceiling < 0 {
		ceiling = 0
	}
	for i, v := range buf {
		switch {
		case !isFinite(v):
			buf[i] = 0
		case v > ceiling:
			buf[i] = ceiling
		case v < -ceiling:
			buf[i] = -ceiling
		}
	}
}
