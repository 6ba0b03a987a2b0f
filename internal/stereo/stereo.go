// Package stereo provides mid/side encoding and stereo-linked application of
// the shaping curve.
package stereo

import (
	"fmt"
	"math"

	"github.com/noahbaxter/guillotine-sub001/internal/curve"
)

// Mode selects how a stereo pair is presented to the curve stage.
type Mode int

const (
	// ModeStereo clips the left and right channels directly.
	ModeStereo Mode = iota

	// ModeMidSide re-encodes the pair as mid/side before the curve stage and
	// decodes afterwards, so clipping can favor the center or the width.
	ModeMidSide

	numModes
)

// tinyDetect is the magnitude below which the linked detector treats the
// frame as silent and applies unity gain.
const tinyDetect = 1e-30

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStereo:
		return "stereo"
	case ModeMidSide:
		return "midside"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	return m >= ModeStereo && m < numModes
}

// Encode converts a left/right pair to mid/side in place:
// mid = (L+R)/2, side = (L−R)/2.
func Encode(left, right []float64) {
	for i := range left {
		l, r := left[i], right[i]
		left[i] = (l + r) / 2
		right[i] = (l - r) / 2
	}
}

// Decode is the exact inverse of Encode: L = mid+side, R = mid−side.
// Encode followed by Decode reproduces the input modulo floating rounding.
func Decode(mid, side []float64) {
	for i := range mid {
		m, s := mid[i], side[i]
		mid[i] = m + s
		side[i] = m - s
	}
}

// ApplyLinked runs the resolved curve over a channel pair in place, blending
// independent and linked clipping by link ∈ [0, 1].
//
// At link 0 each channel is shaped on its own signal. At link 1 both channels
// share a single detector (the louder channel's magnitude) and receive the
// same gain, preserving the stereo image under heavy clipping. Values in
// between blend the two results linearly.
func ApplyLinked(fn curve.Func, a, b []float64, ceiling, link float64) {
	if link <= 0 {
		ApplyMono(fn, a, ceiling)
		ApplyMono(fn, b, ceiling)
		return
	}

	if link > 1 {
		link = 1
	}

	for i := range a {
		xa, xb := a[i], b[i]

		// Shared detector: gain derived from the louder channel.
		peak := math.Max(math.Abs(xa), math.Abs(xb))
		gain := 1.0
		if peak > tinyDetect {
			gain = curve.ApplyWithCeiling(fn, peak, ceiling) / peak
		} else if ceiling <= 0 {
			gain = 0
		}
		linkedA := gain * xa
		linkedB := gain * xb

		if link >= 1 {
			a[i], b[i] = linkedA, linkedB
			continue
		}

		indepA := curve.ApplyWithCeiling(fn, xa, ceiling)
		indepB := curve.ApplyWithCeiling(fn, xb, ceiling)

		a[i] = link*linkedA + (1-link)*indepA
		b[i] = link*linkedB + (1-link)*indepB
	}
}

// ApplyMono runs the resolved curve over a single channel in place.
func ApplyMono(fn curve.Func, buf []float64, ceiling float64) {
	for i, x := range buf {
		buf[i] = curve.ApplyWithCeiling(fn, x, ceiling)
	}
}
