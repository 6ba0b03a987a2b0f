package filter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Frequency response measurement for designed filters. Used by the analysis
// tool and by the design verification tests to confirm that each filter
// family reaches its attenuation class.

const (
	// defaultResponsePoints is the FFT size used for response measurement.
	defaultResponsePoints = 8192

	// minMagnitude avoids log(0) when converting to dB.
	minMagnitude = 1e-12

	// dbMultiplier converts linear magnitude to dB (20·log10 for amplitude).
	dbMultiplier = 20.0
)

// MagnitudeResponse computes the magnitude response of an impulse response
// at numPoints/2+1 frequencies from DC to Nyquist, using a real FFT of the
// zero-padded impulse response.
func MagnitudeResponse(impulse []float64, numPoints int) []float64 {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}
	for numPoints < len(impulse) {
		numPoints *= 2
	}

	fft := fourier.NewFFT(numPoints)

	padded := make([]float64, numPoints)
	copy(padded, impulse)

	coeffs := fft.Coefficients(nil, padded)

	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
	}

	return mags
}

// StopbandAttenuationDB measures the worst-case stopband rejection in dB of
// an impulse response, where the stopband starts at the normalized frequency
// stopbandBegin (0..0.5, relative to the impulse response's own rate).
//
// The returned value is positive: 60 means the largest stopband component is
// 60 dB below unity.
func StopbandAttenuationDB(impulse []float64, stopbandBegin float64) float64 {
	mags := MagnitudeResponse(impulse, defaultResponsePoints)

	// mags spans DC..Nyquist over len(mags) bins
	startBin := int(stopbandBegin / 0.5 * float64(len(mags)-1))
	if startBin < 0 {
		startBin = 0
	}

	worst := 0.0
	for _, m := range mags[startBin:] {
		if m > worst {
			worst = m
		}
	}

	if worst < minMagnitude {
		worst = minMagnitude
	}

	return -dbMultiplier * math.Log10(worst)
}

// PassbandRippleDB measures the maximum deviation from unity gain in dB over
// the passband [0, passbandEnd] (normalized, 0..0.5).
func PassbandRippleDB(impulse []float64, passbandEnd float64) float64 {
	mags := MagnitudeResponse(impulse, defaultResponsePoints)

	endBin := int(passbandEnd / 0.5 * float64(len(mags)-1))
	if endBin >= len(mags) {
		endBin = len(mags) - 1
	}

	worst := 0.0
	for _, m := range mags[:endBin+1] {
		if m < minMagnitude {
			m = minMagnitude
		}
		dev := math.Abs(dbMultiplier * math.Log10(m))
		if dev > worst {
			worst = dev
		}
	}

	return worst
}
