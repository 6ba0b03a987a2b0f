// Package curve implements the clipper's shaping functions.
//
// Each curve maps a ceiling-normalized sample to a bounded output in [-1, 1]
// (the saturating curves reach the bound exactly, tanh and arctan only
// asymptotically). Dispatch is resolved once per block via Resolve, so the
// per-sample path is a single indirect call with no branching on curve type.
package curve

import (
	"fmt"
	"math"
)

// Type enumerates the available shaping curves.
type Type int

const (
	// Hard clamps to [-1, 1] with no knee at all.
	Hard Type = iota

	// Tanh applies the hyperbolic tangent, naturally bounded.
	Tanh

	// Quintic applies x - (256/3125)·x⁵, transparent until near the ceiling.
	Quintic

	// Cubic applies x - (4/27)·x³, a classic soft clipper polynomial.
	Cubic

	// Arctan applies (2/π)·atan(x), the softest knee of the bank.
	Arctan

	// TSquared applies sign(x)·min(|x|^exponent, 1); the exponent is a free
	// shape parameter (1 = linear, 2 = squared, ...).
	TSquared

	// Knee is a soft-knee limiter curve whose knee width is derived from the
	// exponent; exponent 4 gives the widest knee, exponent 1 approaches Hard.
	Knee

	numTypes
)

// Curve polynomial constants.
const (
	// Quintic: y = x - quinticCoeff·x⁵, tangent to ±1 at |x| = quinticBound.
	quinticCoeff = 256.0 / 3125.0
	quinticBound = 1.25

	// Cubic: y = x - cubicCoeff·x³, tangent to ±1 at |x| = cubicBound.
	cubicCoeff = 4.0 / 27.0
	cubicBound = 1.5

	// Arctan normalization so the asymptote is ±1.
	arctanScale = 2.0 / math.Pi
)

// Knee derivation constants.
const (
	kneeExponentMin = 1.0
	kneeExponentMax = 4.0

	// sharpness = (kneeSharpnessBase - exponent) / kneeSharpnessDiv
	kneeSharpnessBase = 4.0
	kneeSharpnessDiv  = 3.0

	// kneeWidth = (1 - sharpness) * kneeWidthScale
	kneeWidthScale = 0.95
)

// String returns the display name of the curve type.
func (t Type) String() string {
	switch t {
	case Hard:
		return "hard"
	case Tanh:
		return "tanh"
	case Quintic:
		return "quintic"
	case Cubic:
		return "cubic"
	case Arctan:
		return "arctan"
	case TSquared:
		return "t2"
	case Knee:
		return "knee"
	default:
		return fmt.Sprintf("curve(%d)", int(t))
	}
}

// Valid reports whether t names a known curve.
func (t Type) Valid() bool {
	return t >= Hard && t < numTypes
}

// Count returns the number of curve types.
func Count() int {
	return int(numTypes)
}

// Func is a resolved per-sample shaping function.
type Func func(x float64) float64

// Resolve returns the shaping function for the given curve type and exponent.
// The exponent only affects TSquared and Knee; it is captured in the returned
// closure so the per-sample path carries no parameter lookups.
// Unknown types resolve to Hard.
func Resolve(t Type, exponent float64) Func {
	switch t {
	case Tanh:
		return math.Tanh

	case Quintic:
		return shapeQuintic

	case Cubic:
		return shapeCubic

	case Arctan:
		return shapeArctan

	case TSquared:
		return makeTSquared(exponent)

	case Knee:
		return makeKnee(exponent)

	default:
		return shapeHard
	}
}

// ApplyWithCeiling normalizes sample by the ceiling, shapes it with fn, and
// rescales. A ceiling at or below zero yields silence; that is defined
// behavior for the curve stage, not an error.
func ApplyWithCeiling(fn Func, sample, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return fn(sample/ceiling) * ceiling
}

func shapeHard(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func shapeQuintic(x float64) float64 {
	if x >= quinticBound {
		return 1
	}
	if x <= -quinticBound {
		return -1
	}
	return x - quinticCoeff*x*x*x*x*x
}

func shapeCubic(x float64) float64 {
	if x >= cubicBound {
		return 1
	}
	if x <= -cubicBound {
		return -1
	}
	return x - cubicCoeff*x*x*x
}

func shapeArctan(x float64) float64 {
	return arctanScale * math.Atan(x)
}

func makeTSquared(exponent float64) Func {
	if exponent < 1 {
		exponent = 1
	}
	return func(x float64) float64 {
		y := math.Pow(math.Abs(x), exponent)
		if y > 1 {
			y = 1
		}
		if x < 0 {
			return -y
		}
		return y
	}
}

func makeKnee(exponent float64) Func {
	if exponent < kneeExponentMin {
		exponent = kneeExponentMin
	}
	if exponent > kneeExponentMax {
		exponent = kneeExponentMax
	}

	sharpness := (kneeSharpnessBase - exponent) / kneeSharpnessDiv
	kneeWidth := (1 - sharpness) * kneeWidthScale
	kneeStart := 1 - kneeWidth

	return func(x float64) float64 {
		ax := math.Abs(x)

		switch {
		case ax <= kneeStart || kneeWidth <= 0:
			if ax >= 1 {
				return math.Copysign(1, x)
			}
			return x

		case ax >= 1:
			return math.Copysign(1, x)

		default:
			// Quadratic interpolation through the knee region.
			t := (ax - kneeStart) / kneeWidth
			return math.Copysign(kneeStart+kneeWidth*t*t, x)
		}
	}
}
