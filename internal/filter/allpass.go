package filter

import (
	"fmt"
	"math"
)

// Minimum-phase halfband design.
//
// A halfband filter can be decomposed into two parallel allpass chains:
//
//	H(z) = (A0(z²) + z⁻¹·A1(z²)) / 2
//
// where A0 and A1 are cascades of first-order allpass sections
// (a + z⁻¹)/(1 + a·z⁻¹) operating on the polyphase branches. The section
// coefficients come from a closed-form elliptic design: for a given
// transition bandwidth and section count the coefficients are computed via
// elliptic integral nomes, giving equiripple stopband behavior with very low
// group delay near DC. The structure is IIR and minimum-phase-like: all group
// delay is concentrated at high frequencies, leaving only a couple of samples
// of latency in the audio band.

// AllpassHalfband holds the per-branch section coefficients of a polyphase
// allpass halfband filter. Branch 0 processes even polyphase samples, branch 1
// processes odd samples and carries the structural unit delay.
type AllpassHalfband struct {
	// Branch0 and Branch1 are first-order allpass coefficients, each in (0, 1).
	Branch0 []float64
	Branch1 []float64

	// Attenuation is the designed stopband attenuation in dB.
	Attenuation float64

	// Transition is the normalized transition bandwidth used in the design.
	Transition float64
}

// DesignAllpassHalfband computes polyphase allpass halfband coefficients for
// the given number of sections and normalized transition bandwidth.
//
// numCoeffs is the total first-order section count across both branches;
// the sections alternate between the branches, smallest coefficient first.
func DesignAllpassHalfband(numCoeffs int, transition float64) (*AllpassHalfband, error) {
	if err := validateAllpassParams(numCoeffs, transition); err != nil {
		return nil, err
	}

	k, q := computeTransitionParam(transition)
	order := numCoeffs*2 + 1

	coeffs := make([]float64, numCoeffs)
	for i := range numCoeffs {
		coeffs[i] = computeCoefficient(i, k, q, order)
	}

	hb := &AllpassHalfband{
		Attenuation: computeAttenuation(q, order),
		Transition:  transition,
	}

	// Alternate assignment: even indices drive branch 0, odd indices branch 1.
	for i, c := range coeffs {
		if i%2 == 0 {
			hb.Branch0 = append(hb.Branch0, c)
		} else {
			hb.Branch1 = append(hb.Branch1, c)
		}
	}

	return hb, nil
}

// GroupDelayDC returns the filter's group delay in samples at DC, measured at
// the filter's own (high) sample rate.
//
// A first-order allpass section (a + z⁻¹)/(1 + a·z⁻¹) contributes
// (1-a)/(1+a) samples of delay at DC on its branch; branch sections run on
// the half-rate polyphase streams so each contributes twice that at the full
// rate, and branch 1 carries one extra full-rate sample from the z⁻¹ term.
// The two branches are phase-matched in the passband, so the filter delay is
// their average.
func (hb *AllpassHalfband) GroupDelayDC() float64 {
	branchDelay := func(coeffs []float64) float64 {
		d := 0.0
		for _, a := range coeffs {
			d += 2.0 * (1.0 - a) / (1.0 + a)
		}
		return d
	}

	d0 := branchDelay(hb.Branch0)
	d1 := branchDelay(hb.Branch1) + 1.0

	return (d0 + d1) / 2.0
}

func validateAllpassParams(numCoeffs int, transition float64) error {
	if numCoeffs < 1 {
		return fmt.Errorf("allpass halfband: number of coefficients must be >= 1: %d", numCoeffs)
	}
	if math.IsNaN(transition) || transition <= 0 || transition >= 0.5 {
		return fmt.Errorf("allpass halfband: transition must be in (0, 0.5): %g", transition)
	}
	return nil
}

// computeTransitionParam maps the transition bandwidth to the elliptic
// modulus k and nome q used by the coefficient formulas.
func computeTransitionParam(transition float64) (k, q float64) {
	k = math.Pow(math.Tan((1-transition*2)*math.Pi*0.25), 2)
	kksqrt := math.Pow(1-k*k, 0.25)
	e := 0.5 * (1 - kksqrt) / (1 + kksqrt)
	e4 := e * e * e * e
	q = e * (1 + e4*(2+e4*(15+150*e4)))

	return k, q
}

func computeAttenuation(q float64, order int) float64 {
	v := 4 * math.Exp(float64(order)*0.5*math.Log(q))
	return -10 * math.Log10(v/(1+v))
}

func computeCoefficient(index int, k, q float64, order int) float64 {
	c := index + 1
	num := coeffSeriesNum(q, order, c) * math.Pow(q, 0.25)
	den := coeffSeriesDen(q, order, c) + 0.5
	ww := (num * num) / (den * den)

	r := math.Sqrt((1-ww*k)*(1-ww/k)) / (1 + ww)
	return (1 - r) / (1 + r)
}

func coeffSeriesNum(q float64, order, c int) float64 {
	result := 0.0
	i := 0
	sign := 1.0
	for {
		term := math.Pow(q, float64(i*(i+1))) * (math.Sin(float64(i*2+1)*float64(c)*math.Pi/float64(order)) * sign)
		result += term
		sign = -sign
		i++
		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	return result
}

func coeffSeriesDen(q float64, order, c int) float64 {
	result := 0.0
	i := 1
	sign := -1.0
	for {
		term := math.Pow(q, float64(i*i)) * math.Cos(2*float64(i)*float64(c)*math.Pi/float64(order)) * sign
		result += term
		sign = -sign
		i++
		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	return result
}
