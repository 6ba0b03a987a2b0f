// Package filter provides filter design functions for the oversampler:
// Kaiser windowed-sinc FIR lowpass design for the linear-phase family and
// elliptic polyphase allpass design for the minimum-phase family.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/noahbaxter/guillotine-sub001/internal/mathutil"
)

const (
	// Filter design constants
	minFilterTaps = 3
	maxFilterTaps = 8191

	// Window normalization
	windowNormalizationFactor = 2.0

	// Sinc function constants
	sincCenterTap     = 1.0
	sincZeroThreshold = 1e-10
)

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
// The Kaiser window provides excellent control over the trade-off between
// main lobe width and sidelobe level in frequency domain.
//
// Parameters:
//
//	length: Number of samples in the window (should be odd for symmetric FIR)
//	beta: Kaiser β parameter (controls sidelobe attenuation)
//	      Typically 0-15, where higher values = more attenuation but wider main lobe
//
// The window is symmetric: w[i] = w[length-1-i]
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)

	// Special case for length 1
	if length == 1 {
		window[0] = sincCenterTap
		return window
	}

	// Calculate window using Kaiser formula:
	// w[n] = I₀(β * sqrt(1 - ((n - α)/α)²)) / I₀(β)
	// where α = (N-1)/2 and N is the window length

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		// Position relative to center: [-1, 1]
		x := (float64(n) - alpha) / alpha

		arg := beta * math.Sqrt(1.0-x*x)
		window[n] = mathutil.BesselI0(arg) / i0Beta
	}

	return window
}

// LowPassParams holds parameters for windowed-sinc lowpass design.
type LowPassParams struct {
	// NumTaps is the filter length (number of coefficients)
	// Should be odd for symmetric linear-phase FIR
	NumTaps int

	// CutoffFreq is the normalized cutoff frequency (0 to 0.5)
	// 0.5 represents Nyquist frequency (half the sample rate)
	CutoffFreq float64

	// Attenuation is the desired stopband attenuation in dB
	Attenuation float64

	// Gain is the passband gain (1.0 for decimation, 2.0 for 2x interpolation
	// to compensate for the energy lost to zero insertion)
	Gain float64
}

// Validate checks if filter parameters are valid.
func (lp *LowPassParams) Validate() error {
	if lp.NumTaps < minFilterTaps {
		return fmt.Errorf("filter too short: %d taps (minimum %d)", lp.NumTaps, minFilterTaps)
	}

	if lp.NumTaps > maxFilterTaps {
		return fmt.Errorf("filter too long: %d taps (maximum %d)", lp.NumTaps, maxFilterTaps)
	}

	if lp.CutoffFreq <= 0 || lp.CutoffFreq >= 0.5 {
		return fmt.Errorf("invalid cutoff frequency: %f (must be in (0, 0.5))", lp.CutoffFreq)
	}

	if lp.Attenuation < 0 {
		return fmt.Errorf("invalid attenuation: %f dB (must be positive)", lp.Attenuation)
	}

	if lp.Gain <= 0 {
		return fmt.Errorf("invalid gain: %f (must be positive)", lp.Gain)
	}

	return nil
}

// DesignLowPass designs a windowed-sinc lowpass FIR filter.
//
// This uses the Kaiser window method:
//  1. Generate ideal sinc function (infinite impulse response)
//  2. Truncate to finite length
//  3. Apply Kaiser window to reduce Gibbs phenomenon
//  4. Normalize for desired gain
//
// The resulting filter has linear phase (symmetric impulse response).
func DesignLowPass(params LowPassParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Calculate Kaiser β from desired attenuation
	beta := mathutil.KaiserBeta(params.Attenuation)

	window := KaiserWindow(params.NumTaps, beta)

	// Generate windowed sinc function
	coeffs := make([]float64, params.NumTaps)
	center := float64(params.NumTaps-1) / windowNormalizationFactor

	for n := range params.NumTaps {
		x := float64(n) - center

		// sinc: sin(2πfc·x) / (πx), limit 2*fc at x=0
		var sincValue float64
		if math.Abs(x) < sincZeroThreshold {
			sincValue = windowNormalizationFactor * params.CutoffFreq
		} else {
			arg := windowNormalizationFactor * math.Pi * params.CutoffFreq * x
			sincValue = math.Sin(arg) / (math.Pi * x)
		}

		coeffs[n] = sincValue * window[n]
	}

	// Normalize filter for desired gain at DC
	sum := f64.Sum(coeffs)

	if math.Abs(sum) > sincZeroThreshold {
		scale := params.Gain / sum
		f64.Scale(coeffs, coeffs, scale)
	}

	return coeffs, nil
}
